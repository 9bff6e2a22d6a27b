package services

import (
	"context"
	"errors"
	"time"

	"amora_backend/internal/events"
	"amora_backend/internal/models"
	"amora_backend/internal/repositories"
	"amora_backend/internal/services/dto"
	"amora_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type MatchService interface {
	// ResolveAfterSwipe выполняется внутри транзакции свайпа.
	// created=true только у той стороны, чья вставка реально прошла:
	// при гонке двух встречных свайпов матч получают оба, но событие
	// NewMatch эмитится ровно один раз - победителем вставки.
	ResolveAfterSwipe(ctx context.Context, tx *gorm.DB, swipe *models.Swipe) (match *models.Match, created bool, err error)
	ListMatches(ctx context.Context, userID string, limit int) (*dto.MatchListResponse, error)
	GetMatch(ctx context.Context, userID, matchID string) (*dto.MatchResponse, error)
	Unmatch(ctx context.Context, userID, matchID string) error
}

type MatchServiceImpl struct {
	matchRepo repositories.MatchRepository
	swipeRepo repositories.SwipeRepository
	notifier  events.Notifier
	now       func() time.Time
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	swipeRepo repositories.SwipeRepository,
	notifier events.Notifier,
) MatchService {
	return &MatchServiceImpl{
		matchRepo: matchRepo,
		swipeRepo: swipeRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *MatchServiceImpl) ResolveAfterSwipe(ctx context.Context, tx *gorm.DB, swipe *models.Swipe) (*models.Match, bool, error) {
	if !swipe.Action.Positive() {
		return nil, false, nil
	}

	reciprocal, err := s.swipeRepo.HasReciprocalPositive(ctx, tx, swipe.SwiperID, swipe.SwipedID)
	if err != nil {
		return nil, false, err
	}
	if !reciprocal {
		return nil, false, nil
	}

	u1, u2 := models.NormalizePair(swipe.SwiperID, swipe.SwipedID)
	match := &models.Match{
		User1ID:          u1,
		User2ID:          u2,
		Status:           models.MatchStatusActive,
		MatchedBySwipeID: swipe.ID,
	}

	err = s.matchRepo.Create(ctx, tx, match)
	if err == nil {
		return match, true, nil
	}
	if !errors.Is(err, repositories.ErrDuplicateMatch) {
		return nil, false, err
	}

	// Проигрыш гонки: активный матч уже вставлен встречной стороной
	existing, err := s.matchRepo.FindActiveByPair(ctx, tx, u1, u2)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func toMatchResponse(m *models.Match, viewerID string) dto.MatchResponse {
	return dto.MatchResponse{
		ID:            m.ID,
		OtherUserID:   m.OtherUser(viewerID),
		Status:        string(m.Status),
		MatchedAt:     m.CreatedAt,
		LastMessageAt: m.LastMessageAt,
	}
}

func (s *MatchServiceImpl) ListMatches(ctx context.Context, userID string, limit int) (*dto.MatchListResponse, error) {
	matches, err := s.matchRepo.ListActiveForUser(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.MatchListResponse{
		Matches: make([]dto.MatchResponse, 0, len(matches)),
		Total:   len(matches),
	}
	for i := range matches {
		resp.Matches = append(resp.Matches, toMatchResponse(&matches[i], userID))
	}
	return resp, nil
}

func (s *MatchServiceImpl) GetMatch(ctx context.Context, userID, matchID string) (*dto.MatchResponse, error) {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, apperrors.ErrMatchNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if !match.HasParticipant(userID) {
		return nil, apperrors.ErrNotMatchParticipant
	}

	resp := toMatchResponse(match, userID)
	return &resp, nil
}

func (s *MatchServiceImpl) Unmatch(ctx context.Context, userID, matchID string) error {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return apperrors.ErrMatchNotFound
		}
		return apperrors.InternalError(err)
	}
	if !match.HasParticipant(userID) {
		return apperrors.ErrNotMatchParticipant
	}

	now := s.now()
	done, err := s.matchRepo.MarkUnmatched(ctx, matchID, userID, now)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !done {
		return apperrors.ErrMatchAlreadyUnmatched
	}

	s.notifier.Notify(ctx, events.MatchUnmatchedEvent(matchID, userID, now))
	return nil
}
