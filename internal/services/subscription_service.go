package services

import (
	"context"
	"errors"
	"time"

	"amora_backend/internal/models"
	"amora_backend/internal/repositories"
	"amora_backend/internal/services/dto"
	"amora_backend/pkg/apperrors"
)

type SubscriptionService interface {
	ListPlans(ctx context.Context) ([]dto.PlanResponse, error)
	GetCurrent(ctx context.Context, userID string) (*dto.SubscriptionResponse, error)
	Subscribe(ctx context.Context, userID string, req dto.SubscribeRequest) (*dto.SubscriptionResponse, error)
	Cancel(ctx context.Context, userID string) error
}

type SubscriptionServiceImpl struct {
	repo repositories.SubscriptionRepository
	now  func() time.Time
}

func NewSubscriptionService(repo repositories.SubscriptionRepository) SubscriptionService {
	return &SubscriptionServiceImpl{repo: repo, now: time.Now}
}

func planDuration(plan *models.SubscriptionPlan) time.Duration {
	switch plan.Duration {
	case "yearly":
		return 365 * 24 * time.Hour
	default: // monthly
		return 30 * 24 * time.Hour
	}
}

func planDays(plan *models.SubscriptionPlan) int {
	return int(planDuration(plan).Hours() / 24)
}

func toSubscriptionResponse(sub *models.UserSubscription) *dto.SubscriptionResponse {
	return &dto.SubscriptionResponse{
		ID:        sub.ID,
		PlanID:    sub.PlanID,
		PlanName:  sub.Plan.Name,
		Status:    string(sub.Status),
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
		AutoRenew: sub.AutoRenew,
	}
}

func (s *SubscriptionServiceImpl) ListPlans(ctx context.Context) ([]dto.PlanResponse, error) {
	plans, err := s.repo.FindActivePlans(ctx)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		resp = append(resp, dto.PlanResponse{
			ID:       plans[i].ID,
			Name:     plans[i].Name,
			Price:    plans[i].Price,
			Currency: plans[i].Currency,
			Duration: planDays(&plans[i]),
		})
	}
	return resp, nil
}

func (s *SubscriptionServiceImpl) GetCurrent(ctx context.Context, userID string) (*dto.SubscriptionResponse, error) {
	sub, err := s.repo.FindActiveByUserID(ctx, userID, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return toSubscriptionResponse(sub), nil
}

func (s *SubscriptionServiceImpl) Subscribe(ctx context.Context, userID string, req dto.SubscribeRequest) (*dto.SubscriptionResponse, error) {
	plan, err := s.repo.FindPlanByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlanNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !plan.IsActive {
		return nil, apperrors.ErrInvalidOperation("subscription", "Plan is no longer available")
	}

	// Новая подписка вытесняет текущую: старая помечается cancelled
	now := s.now()
	if err := s.repo.CancelByUserID(ctx, userID, now); err != nil &&
		!errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, apperrors.InternalError(err)
	}

	sub := &models.UserSubscription{
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    models.SubscriptionStatusActive,
		StartDate: now,
		EndDate:   now.Add(planDuration(plan)),
		AutoRenew: req.AutoRenew,
		Plan:      *plan,
	}
	if err := s.repo.CreateUserSubscription(ctx, sub); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toSubscriptionResponse(sub), nil
}

func (s *SubscriptionServiceImpl) Cancel(ctx context.Context, userID string) error {
	err := s.repo.CancelByUserID(ctx, userID, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			return apperrors.ErrSubscriptionNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}
