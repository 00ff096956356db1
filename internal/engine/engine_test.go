package engine

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
)

const testUser = uint(1)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	// one named in-memory database per test so state never leaks between them
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Card{},
		&models.IncomeEntry{},
		&models.ExpenseEntry{},
		&models.FutureLaunch{},
		&models.Goal{},
		&models.CheckIn{},
	))

	require.NoError(t, db.Create(&models.User{
		ID:           testUser,
		Username:     "tester",
		PasswordHash: "x",
	}).Error)

	return New(db)
}

func seedCategory(t *testing.T, e *Engine, kind string) uint {
	t.Helper()

	cat := models.Category{UserID: testUser, Name: "cat-" + kind, Kind: kind}
	require.NoError(t, e.DB.Create(&cat).Error)
	return cat.ID
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
