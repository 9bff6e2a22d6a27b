package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"amora_backend/internal/config"
	"amora_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewTestDB поднимает изолированную in-memory SQLite базу со всеми
// миграциями. TranslateError включен, как и в продовом подключении:
// от него зависит различение дубликата матча.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Swipe{},
		&models.Match{},
		&models.Consumable{},
		&models.SubscriptionPlan{},
		&models.UserSubscription{},
		&models.DomainEvent{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	// Один коннект на базу: writers в shared-cache SQLite конфликтуют
	// table-lock'ами, конкурентные тесты сериализуются на пуле
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get *sql.DB from test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// NewTestConfig возвращает конфигурацию с дефолтами без чтения файлов
func NewTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "development"
	cfg.Swipes.FreeSuperLikesCap = 1
	cfg.Swipes.FreeBoostsCap = 0
	cfg.Swipes.SuperLikeResetHours = 24
	cfg.Swipes.PerMinute = 60
	cfg.Swipes.Per10Sec = 15
	cfg.Swipes.BoostMinutes = 30
	cfg.Workers.SweepMinutes = 15
	return cfg
}

// CreateUser вставляет активного пользователя и возвращает его id
func CreateUser(t *testing.T, db *gorm.DB) string {
	t.Helper()

	now := time.Now()
	user := models.User{
		DisplayName: "user-" + uuid.NewString()[:8],
		Status:      models.UserStatusActive,
		LastActive:  &now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user.ID
}
