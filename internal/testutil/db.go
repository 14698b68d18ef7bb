package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bag_shop/internal/db"
)

// NewDB returns a migrated in-memory sqlite store. The pool is pinned to one
// connection because every new sqlite connection sees its own empty memory db.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := db.Config()
	cfg.PrepareStmt = false

	gdb, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}
