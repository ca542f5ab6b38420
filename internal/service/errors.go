package service

import (
	"errors"
	"fmt"
)

var (
	ErrSelfReference = errors.New("self reference")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotFound 同时覆盖“不存在”和“存在但不属于你”，避免泄露他人数据
	ErrNotFound     = errors.New("not found")
	ErrAuthRequired = errors.New("authentication required")
	ErrInvalidInput = errors.New("invalid input")
)

func selfError(action string) error {
	return fmt.Errorf("cannot %s yourself: %w", action, ErrSelfReference)
}
