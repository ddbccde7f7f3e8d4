package melodia

import (
	"github.com/sarthakvats/melodia/pkg/melodia/storage"
)

// NewSQLiteStorage creates the SQLite-backed catalog storage.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	db, err := storage.NewDBClientWithPath(dbPath)
	if err != nil {
		return nil, err
	}
	return db, nil
}
