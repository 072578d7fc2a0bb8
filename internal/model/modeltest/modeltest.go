// Package modeltest opens throwaway SQLite repositories for tests.
package modeltest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"repairorder/internal/model"

	"gorm.io/driver/sqlite"
)

var counter atomic.Int64

// NewRepository returns a migrated repository backed by a private in-memory
// SQLite database that lives for the duration of the test.
func NewRepository(t testing.TB) model.Repository {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, counter.Add(1))

	repo, err := model.OpenRepository(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open sqlite repository: %v", err)
	}
	return repo
}
