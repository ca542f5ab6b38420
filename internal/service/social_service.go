package service

import (
	"context"

	"github.com/d60-Lab/recipe-social/internal/model"
	"github.com/d60-Lab/recipe-social/internal/repository"
)

type FollowOutcome string

const (
	FollowCreated FollowOutcome = "created"
	FollowPending FollowOutcome = "pending"
)

// FollowResult 公开账号直接产生 Follow，私密账号产生待审批的 FollowRequest
type FollowResult struct {
	Outcome FollowOutcome        `json:"status"`
	Follow  *model.Follow        `json:"follow,omitempty"`
	Request *model.FollowRequest `json:"request,omitempty"`
}

// SocialGraphService 关系链服务：关注、关注请求、拉黑、静音
type SocialGraphService interface {
	Follow(ctx context.Context, actorID, targetID string) (*FollowResult, error)
	Unfollow(ctx context.Context, actorID, targetID string) error
	AcceptRequest(ctx context.Context, actorID, requestID string) (*model.FollowRequest, error)
	RejectRequest(ctx context.Context, actorID, requestID string) (*model.FollowRequest, error)
	Block(ctx context.Context, actorID, targetID string) (*model.Block, error)
	Unblock(ctx context.Context, actorID, targetID string) error
	Mute(ctx context.Context, actorID, targetID string) (*model.Mute, error)
	Unmute(ctx context.Context, actorID, targetID string) error

	ListFollowers(ctx context.Context, userID string, page, pageSize int) (*Page[*model.Follow], error)
	ListFollowing(ctx context.Context, userID string, page, pageSize int) (*Page[*model.Follow], error)
	ListPendingRequests(ctx context.Context, actorID string, page, pageSize int) (*Page[*model.FollowRequest], error)
	ListBlocked(ctx context.Context, actorID string, page, pageSize int) (*Page[*model.Block], error)
	ListMuted(ctx context.Context, actorID string, page, pageSize int) (*Page[*model.Mute], error)
}

type socialGraphService struct {
	store    *repository.Store
	notifier Notifier
}

func NewSocialGraphService(store *repository.Store, notifier Notifier) SocialGraphService {
	return &socialGraphService{store: store, notifier: notifier}
}

func (s *socialGraphService) notify(in NotificationInput) {
	if s.notifier != nil {
		s.notifier.Notify(in)
	}
}

func (s *socialGraphService) getUser(ctx context.Context, id string) (*model.User, error) {
	u, err := s.store.Users.Get(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *socialGraphService) Follow(ctx context.Context, actorID, targetID string) (*FollowResult, error) {
	if actorID == "" {
		return nil, ErrAuthRequired
	}
	if actorID == targetID {
		return nil, selfError("follow")
	}
	target, err := s.getUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	// 被对方拉黑时不允许关注
	blocked, err := s.store.Blocks.Exists(ctx, targetID, actorID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrForbidden
	}
	exists, err := s.store.Follows.Exists(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	if target.IsPrivate {
		return s.requestFollow(ctx, actorID, targetID)
	}

	f, created, err := s.store.Follows.Create(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if !created {
		// 并发下另一请求先写入
		return nil, ErrAlreadyExists
	}
	s.notify(NotificationInput{
		RecipientID: targetID,
		Verb:        model.VerbFollowed,
		ActorID:     actorID,
		TargetType:  model.TargetTypeUser,
		TargetID:    actorID,
	})
	return &FollowResult{Outcome: FollowCreated, Follow: f}, nil
}

// requestFollow 私密账号：新建待审批请求；已有请求若非 pending 则重置为 pending
func (s *socialGraphService) requestFollow(ctx context.Context, actorID, targetID string) (*FollowResult, error) {
	var (
		req      *model.FollowRequest
		announce bool
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		r, created, err := tx.Requests.Create(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if created {
			req, announce = r, true
			return nil
		}
		existing, err := tx.Requests.Get(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if existing.Status != model.FollowRequestPending {
			if err := tx.Requests.ResetPending(ctx, existing); err != nil {
				return err
			}
			announce = true
		}
		req = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	if announce {
		s.notify(NotificationInput{
			RecipientID: targetID,
			Verb:        model.VerbFollowRequest,
			ActorID:     actorID,
			TargetType:  model.TargetTypeFollowRequest,
			TargetID:    req.ID,
		})
	}
	return &FollowResult{Outcome: FollowPending, Request: req}, nil
}

// Unfollow 同时撤回关注和待审批请求，幂等
func (s *socialGraphService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if actorID == "" {
		return ErrAuthRequired
	}
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Follows.Delete(ctx, actorID, targetID); err != nil {
			return err
		}
		return tx.Requests.Delete(ctx, actorID, targetID)
	})
}

func (s *socialGraphService) AcceptRequest(ctx context.Context, actorID, requestID string) (*model.FollowRequest, error) {
	if actorID == "" {
		return nil, ErrAuthRequired
	}
	req, err := s.findPending(ctx, actorID, requestID)
	if err != nil {
		return nil, err
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		ok, err := tx.Requests.Transition(ctx, requestID, actorID, model.FollowRequestApproved)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		_, err = tx.Follows.GetOrCreate(ctx, req.RequesterID, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	req.Status = model.FollowRequestApproved
	s.notify(NotificationInput{
		RecipientID: actorID,
		Verb:        model.VerbFollowed,
		ActorID:     req.RequesterID,
		TargetType:  model.TargetTypeUser,
		TargetID:    req.RequesterID,
	})
	return req, nil
}

func (s *socialGraphService) RejectRequest(ctx context.Context, actorID, requestID string) (*model.FollowRequest, error) {
	if actorID == "" {
		return nil, ErrAuthRequired
	}
	req, err := s.findPending(ctx, actorID, requestID)
	if err != nil {
		return nil, err
	}
	ok, err := s.store.Requests.Transition(ctx, requestID, actorID, model.FollowRequestRejected)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	req.Status = model.FollowRequestRejected
	return req, nil
}

// findPending 只有请求的目标用户能看到处于 pending 的请求
func (s *socialGraphService) findPending(ctx context.Context, actorID, requestID string) (*model.FollowRequest, error) {
	req, err := s.store.Requests.FindPending(ctx, requestID, actorID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

// Block 拉黑并清理双方之间的关注与关注请求
func (s *socialGraphService) Block(ctx context.Context, actorID, targetID string) (*model.Block, error) {
	if actorID == "" {
		return nil, ErrAuthRequired
	}
	if actorID == targetID {
		return nil, selfError("block")
	}
	if _, err := s.getUser(ctx, targetID); err != nil {
		return nil, err
	}
	var b *model.Block
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if b, err = tx.Blocks.GetOrCreate(ctx, actorID, targetID); err != nil {
			return err
		}
		if err := tx.Follows.Delete(ctx, actorID, targetID); err != nil {
			return err
		}
		if err := tx.Follows.Delete(ctx, targetID, actorID); err != nil {
			return err
		}
		if err := tx.Requests.Delete(ctx, actorID, targetID); err != nil {
			return err
		}
		return tx.Requests.Delete(ctx, targetID, actorID)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *socialGraphService) Unblock(ctx context.Context, actorID, targetID string) error {
	if actorID == "" {
		return ErrAuthRequired
	}
	return s.store.Blocks.Delete(ctx, actorID, targetID)
}

func (s *socialGraphService) Mute(ctx context.Context, actorID, targetID string) (*model.Mute, error) {
	if actorID == "" {
		return nil, ErrAuthRequired
	}
	if actorID == targetID {
		return nil, selfError("mute")
	}
	if _, err := s.getUser(ctx, targetID); err != nil {
		return nil, err
	}
	return s.store.Mutes.GetOrCreate(ctx, actorID, targetID)
}

func (s *socialGraphService) Unmute(ctx context.Context, actorID, targetID string) error {
	if actorID == "" {
		return ErrAuthRequired
	}
	return s.store.Mutes.Delete(ctx, actorID, targetID)
}

func (s *socialGraphService) ListFollowers(ctx context.Context, userID string, page, pageSize int) (*Page[*model.Follow], error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}
	page, pageSize, offset := normalizePage(page, pageSize)
	total, err := s.store.Follows.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.Follows.ListFollowers(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, err
	}
	return newPage(list, total, page, pageSize), nil
}

func (s *socialGraphService) ListFollowing(ctx context.Context, userID string, page, pageSize int) (*Page[*model.Follow], error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}
	page, pageSize, offset := normalizePage(page, pageSize)
	total, err := s.store.Follows.CountFollowings(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.Follows.ListFollowings(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, err
	}
	return newPage(list, total, page, pageSize), nil
}

func (s *socialGraphService) ListPendingRequests(ctx context.Context, actorID string, page, pageSize int) (*Page[*model.FollowRequest], error) {
	if actorID == "" {
		return nil, ErrAuthRequired
	}
	page, pageSize, offset := normalizePage(page, pageSize)
	total, err := s.store.Requests.CountPending(ctx, actorID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.Requests.ListPending(ctx, actorID, offset, pageSize)
	if err != nil {
		return nil, err
	}
	return newPage(list, total, page, pageSize), nil
}

func (s *socialGraphService) ListBlocked(ctx context.Context, actorID string, page, pageSize int) (*Page[*model.Block], error) {
	if actorID == "" {
		return nil, ErrAuthRequired
	}
	page, pageSize, offset := normalizePage(page, pageSize)
	total, err := s.store.Blocks.Count(ctx, actorID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.Blocks.List(ctx, actorID, offset, pageSize)
	if err != nil {
		return nil, err
	}
	return newPage(list, total, page, pageSize), nil
}

func (s *socialGraphService) ListMuted(ctx context.Context, actorID string, page, pageSize int) (*Page[*model.Mute], error) {
	if actorID == "" {
		return nil, ErrAuthRequired
	}
	page, pageSize, offset := normalizePage(page, pageSize)
	total, err := s.store.Mutes.Count(ctx, actorID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.Mutes.List(ctx, actorID, offset, pageSize)
	if err != nil {
		return nil, err
	}
	return newPage(list, total, page, pageSize), nil
}
