package postgres

import (
	"testing"

	authModel "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/model"
	catalogModel "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/catalog/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every pooled connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&authModel.User{},
		&authModel.Address{},
		&catalogModel.Category{},
		&catalogModel.Product{},
	))
	return db
}
