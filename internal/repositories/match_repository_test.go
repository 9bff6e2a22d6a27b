package repositories

import (
	"context"
	"testing"
	"time"

	"amora_backend/internal/models"
	"amora_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Частичный уникальный индекс: вторая активная строка на пару отклоняется
// и транслируется в ErrDuplicateMatch
func TestMatchCreate_DuplicateActivePairRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db)
	bob := testutil.CreateUser(t, db)
	u1, u2 := models.NormalizePair(alice, bob)

	first := &models.Match{User1ID: u1, User2ID: u2, Status: models.MatchStatusActive}
	require.NoError(t, repo.Create(ctx, db, first))

	second := &models.Match{User1ID: u1, User2ID: u2, Status: models.MatchStatusActive}
	err := repo.Create(ctx, db, second)
	assert.ErrorIs(t, err, ErrDuplicateMatch)
}

// После unmatch индекс позволяет новую активную строку на ту же пару
func TestMatchCreate_AllowedAfterUnmatch(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db)
	bob := testutil.CreateUser(t, db)
	u1, u2 := models.NormalizePair(alice, bob)

	first := &models.Match{User1ID: u1, User2ID: u2, Status: models.MatchStatusActive}
	require.NoError(t, repo.Create(ctx, db, first))

	done, err := repo.MarkUnmatched(ctx, first.ID, alice, time.Now())
	require.NoError(t, err)
	require.True(t, done)

	second := &models.Match{User1ID: u1, User2ID: u2, Status: models.MatchStatusActive}
	assert.NoError(t, repo.Create(ctx, db, second))
}

// Guard по статусу: из двух конкурирующих unmatch проходит только один
func TestMarkUnmatched_SecondCallNoop(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db)
	bob := testutil.CreateUser(t, db)
	u1, u2 := models.NormalizePair(alice, bob)

	match := &models.Match{User1ID: u1, User2ID: u2, Status: models.MatchStatusActive}
	require.NoError(t, repo.Create(ctx, db, match))

	done, err := repo.MarkUnmatched(ctx, match.ID, alice, time.Now())
	require.NoError(t, err)
	assert.True(t, done)

	done, err = repo.MarkUnmatched(ctx, match.ID, bob, time.Now())
	require.NoError(t, err)
	assert.False(t, done)

	// Атрибуция разрыва остается за первым
	stored, err := repo.FindByID(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, stored.UnmatchedBy)
}

func TestFindActiveByPair_OrderInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db)
	bob := testutil.CreateUser(t, db)
	u1, u2 := models.NormalizePair(alice, bob)

	match := &models.Match{User1ID: u1, User2ID: u2, Status: models.MatchStatusActive}
	require.NoError(t, repo.Create(ctx, db, match))

	found, err := repo.FindActiveByPair(ctx, nil, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, match.ID, found.ID)

	found, err = repo.FindActiveByPair(ctx, nil, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, match.ID, found.ID)
}
