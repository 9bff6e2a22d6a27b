package services

import (
	"context"
	"time"

	"amora_backend/internal/events"
	"amora_backend/internal/logger"
	"amora_backend/internal/models"
	"amora_backend/internal/ratelimit"
	"amora_backend/internal/repositories"
	"amora_backend/internal/services/dto"
	"amora_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const BlockedReasonNoSuperLikes = "no_super_likes"

type SwipeService interface {
	// RecordSwipe - единственная точка входа свайпа: валидация, rate limit,
	// затем одна транзакция (списание суперлайка -> upsert свайпа ->
	// резолюция матча) и эмиссия событий строго после commit.
	RecordSwipe(ctx context.Context, userID string, req dto.SwipeRequest) (*dto.SwipeResponse, error)
	GetSwipe(ctx context.Context, swiperID, swipedID string) (*models.Swipe, error)
}

type SwipeServiceImpl struct {
	db          *gorm.DB
	swipeRepo   repositories.SwipeRepository
	userRepo    repositories.UserRepository
	matchSvc    MatchService
	consumables ConsumableService
	gate        SubscriptionGate
	limiter     ratelimit.SwipeLimiter
	notifier    events.Notifier
	now         func() time.Time
}

func NewSwipeService(
	db *gorm.DB,
	swipeRepo repositories.SwipeRepository,
	userRepo repositories.UserRepository,
	matchSvc MatchService,
	consumables ConsumableService,
	gate SubscriptionGate,
	limiter ratelimit.SwipeLimiter,
	notifier events.Notifier,
) SwipeService {
	return &SwipeServiceImpl{
		db:          db,
		swipeRepo:   swipeRepo,
		userRepo:    userRepo,
		matchSvc:    matchSvc,
		consumables: consumables,
		gate:        gate,
		limiter:     limiter,
		notifier:    notifier,
		now:         time.Now,
	}
}

func (s *SwipeServiceImpl) RecordSwipe(ctx context.Context, userID string, req dto.SwipeRequest) (*dto.SwipeResponse, error) {
	action := models.SwipeAction(req.Action)
	if !action.Valid() {
		return nil, apperrors.ErrUnknownSwipeAction
	}
	if req.TargetID == userID {
		return nil, apperrors.ErrSelfSwipe
	}

	active, err := s.userRepo.IsActive(ctx, req.TargetID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !active {
		return nil, apperrors.ErrSwipeTargetUnavailable
	}

	if retryAfter, allowed := s.limiter.AllowSwipe(ctx, userID); !allowed {
		return nil, apperrors.ErrSwipeRateLimited(int64(retryAfter))
	}

	now := s.now()
	var resp *dto.SwipeResponse
	var persisted *models.Swipe
	// События копятся внутри транзакции и уходят нотификатору только после
	// commit: откат не должен оставлять призрачных уведомлений
	var pending []events.Event

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if action == models.SwipeActionSuperLike {
			ents := s.gate.EntitlementsFor(ctx, userID)
			if ents.IsMetered(models.ResourceSuperLike) {
				blocked, exhaustedNow, err := s.consumables.TryConsumeSuperLike(ctx, tx, userID, ents)
				if err != nil {
					return err
				}
				if blocked {
					// Свайп не записывается; ответ успешный, но с PolicyBlock
					resp = &dto.SwipeResponse{
						Blocked: &dto.BlockedInfo{Reason: BlockedReasonNoSuperLikes},
					}
					return nil
				}
				if exhaustedNow {
					pending = append(pending,
						events.ConsumableExhaustedEvent(userID, string(models.ResourceSuperLike), now))
				}
			}
		}

		swipe, err := s.swipeRepo.Upsert(ctx, tx, userID, req.TargetID, action, now)
		if err != nil {
			return err
		}
		persisted = swipe

		match, created, err := s.matchSvc.ResolveAfterSwipe(ctx, tx, swipe)
		if err != nil {
			return err
		}

		resp = &dto.SwipeResponse{
			SwipeID:    swipe.ID,
			Action:     string(swipe.Action),
			ActionedAt: &swipe.ActionedAt,
			IsMatch:    match != nil,
		}
		if match != nil {
			mr := toMatchResponse(match, userID)
			resp.Match = &mr
		}
		if created {
			pending = append(pending,
				events.NewMatchEvent(match.ID, match.User1ID, match.User2ID, userID, now))
		}
		return nil
	})
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return nil, appErr
		}
		return nil, apperrors.InternalError(err)
	}

	// Встречный свайп мог закоммититься параллельно уже после нашей проверки
	// взаимности: обе транзакции тогда не видят чужую запись и ни одна не
	// создает матч. Повторная резолюция после коммита гарантированно видит
	// более ранний свайп; уникальный индекс по-прежнему дедуплицирует,
	// проигравший вставку подавляет свое событие.
	if persisted != nil && !resp.IsMatch {
		match, created, rerr := s.matchSvc.ResolveAfterSwipe(ctx, s.db, persisted)
		if rerr != nil {
			// Свайп уже зафиксирован; недоставленный матч закроет следующая резолюция
			logger.CtxWarn(ctx, "post-commit match recheck failed", "error", rerr)
		} else if match != nil {
			mr := toMatchResponse(match, userID)
			resp.Match = &mr
			resp.IsMatch = true
			if created {
				pending = append(pending,
					events.NewMatchEvent(match.ID, match.User1ID, match.User2ID, userID, now))
			}
		}
	}

	for _, event := range pending {
		s.notifier.Notify(ctx, event)
	}
	return resp, nil
}

func (s *SwipeServiceImpl) GetSwipe(ctx context.Context, swiperID, swipedID string) (*models.Swipe, error) {
	return s.swipeRepo.FindByPair(ctx, swiperID, swipedID)
}
