package dbclient

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chinazagideon/mock-generator/internal/domain"

	_ "modernc.org/sqlite"
)

// newSQLiteConnector creates a connector for an external SQLite file,
// creating the file's directory if needed.
// Opens in WAL mode with busy timeout for concurrent access.
func newSQLiteConnector(conn *domain.SinkConnection) (*sqlConnector, error) {
	if conn.Host == "" {
		return nil, fmt.Errorf("sqlite: file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(conn.Host), 0755); err != nil {
		return nil, fmt.Errorf("sqlite: create directory: %w", err)
	}
	dsn := conn.Host + "?_journal_mode=WAL&_busy_timeout=5000"
	return newSQLConnector("sqlite", dsn)
}
