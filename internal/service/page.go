package service

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page 分页结果
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// normalizePage 规范化页码，返回 page, pageSize, offset
func normalizePage(page, pageSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize, (page - 1) * pageSize
}

// clampLimit 把 limit 限制在 [1, MaxPageSize]，非正数取 def
func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func newPage[T any](list []T, total int64, page, pageSize int) *Page[T] {
	if list == nil {
		list = []T{}
	}
	return &Page[T]{Items: list, Total: total, Page: page, PageSize: pageSize}
}
