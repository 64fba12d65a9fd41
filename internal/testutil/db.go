// Package testutil opens throwaway databases for repository tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	migration "github.com/tranhuy105/ITSS-CongAn-sub000/cmd/database/migrate"
)

var dbSeq atomic.Int64

// NewDB returns an isolated in-memory sqlite database with the catalog schema
// migrated. The test is skipped when sqlite cannot be opened (for example a
// build without cgo).
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		if strings.Contains(err.Error(), "cgo") || strings.Contains(err.Error(), "CGO") {
			t.Skipf("sqlite unavailable: %v", err)
		}
		require.NoError(t, err)
	}
	if err := db.Exec("SELECT 1").Error; err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}

	require.NoError(t, migration.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
