package events

import (
	"context"
	"testing"
	"time"

	"amora_backend/internal/models"
	"amora_backend/internal/repositories"
	"amora_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxNotifier_WritesDomainEvent(t *testing.T) {
	db := testutil.NewTestDB(t)
	notifier := NewOutboxNotifier(repositories.NewEventRepository(db))

	alice := testutil.CreateUser(t, db)
	bob := testutil.CreateUser(t, db)

	notifier.Notify(context.Background(), NewMatchEvent("match-1", alice, bob, alice, time.Now()))

	var rows []models.DomainEvent
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, EventNewMatch, rows[0].Name)
	require.NotNil(t, rows[0].UserID)
	assert.Equal(t, alice, *rows[0].UserID)
	assert.Contains(t, string(rows[0].Payload), "match-1")
}

func TestMultiNotifier_FansOut(t *testing.T) {
	db := testutil.NewTestDB(t)
	outbox := NewOutboxNotifier(repositories.NewEventRepository(db))
	multi := NewMultiNotifier(NewLogNotifier(), outbox)

	multi.Notify(context.Background(), ConsumableExhaustedEvent("user-1", "super_like", time.Now()))

	var count int64
	require.NoError(t, db.Model(&models.DomainEvent{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
