package repositories

import (
	"context"
	"errors"
	"time"

	"amora_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrDuplicateMatch = errors.New("active match already exists for this pair")
)

type MatchRepository interface {
	// Create пытается вставить активный матч под partial unique index
	// (user1_id, user2_id) WHERE status = 'active'. Нарушение уникальности -
	// это не сбой, а проигрыш гонки: возвращается ErrDuplicateMatch,
	// вызывающий обязан перечитать существующую строку.
	Create(ctx context.Context, tx *gorm.DB, match *models.Match) error
	FindActiveByPair(ctx context.Context, tx *gorm.DB, user1ID, user2ID string) (*models.Match, error)
	FindByID(ctx context.Context, id string) (*models.Match, error)
	ListActiveForUser(ctx context.Context, userID string, limit int) ([]models.Match, error)
	// MarkUnmatched переводит active -> unmatched; guard по статусу в самом
	// UPDATE, чтобы два конкурирующих unmatch не прошли оба.
	MarkUnmatched(ctx context.Context, matchID, byUserID string, now time.Time) (bool, error)
}

type MatchRepositoryImpl struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &MatchRepositoryImpl{db: db}
}

func (r *MatchRepositoryImpl) Create(ctx context.Context, tx *gorm.DB, match *models.Match) error {
	err := tx.WithContext(ctx).Create(match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateMatch
		}
		return err
	}
	return nil
}

func (r *MatchRepositoryImpl) FindActiveByPair(ctx context.Context, tx *gorm.DB, user1ID, user2ID string) (*models.Match, error) {
	u1, u2 := models.NormalizePair(user1ID, user2ID)

	db := tx
	if db == nil {
		db = r.db
	}

	var match models.Match
	err := db.WithContext(ctx).
		First(&match, "user1_id = ? AND user2_id = ? AND status = ?", u1, u2, models.MatchStatusActive).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *MatchRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).First(&match, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *MatchRepositoryImpl) ListActiveForUser(ctx context.Context, userID string, limit int) ([]models.Match, error) {
	if limit <= 0 {
		limit = 100
	}

	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("(user1_id = ? OR user2_id = ?) AND status = ?", userID, userID, models.MatchStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *MatchRepositoryImpl) MarkUnmatched(ctx context.Context, matchID, byUserID string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Match{}).
		Where("id = ? AND status = ?", matchID, models.MatchStatusActive).
		Updates(map[string]interface{}{
			"status":       models.MatchStatusUnmatched,
			"unmatched_at": now,
			"unmatched_by": byUserID,
			"updated_at":   now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
