package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chinazagideon/mock-generator/internal/domain"
)

// SinkConnectionStore manages saved sink connections in SQLite.
type SinkConnectionStore struct {
	db *DB
}

// NewSinkConnectionStore creates a new SinkConnectionStore.
func NewSinkConnectionStore(db *DB) *SinkConnectionStore {
	return &SinkConnectionStore{db: db}
}

const connColumns = `id, name, driver, host, port, database_name, username, ssl_mode, extra_json, created_at, updated_at`

func scanConnection(row rowScanner) (*domain.SinkConnection, error) {
	c := &domain.SinkConnection{}
	err := row.Scan(&c.ID, &c.Name, &c.Driver, &c.Host, &c.Port, &c.Database, &c.Username, &c.SSLMode, &c.ExtraJSON, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *SinkConnectionStore) CreateConnection(c *domain.SinkConnection) error {
	now := time.Now()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.ExtraJSON == "" {
		c.ExtraJSON = "{}"
	}
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.Conn().Exec(
		`INSERT INTO sink_connections (`+connColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Driver, c.Host, c.Port, c.Database, c.Username, c.SSLMode, c.ExtraJSON, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert connection %q: %w", c.Name, err)
	}
	return nil
}

func (s *SinkConnectionStore) GetConnection(id string) (*domain.SinkConnection, error) {
	c, err := scanConnection(s.db.Conn().QueryRow(`SELECT `+connColumns+` FROM sink_connections WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sink connection %s: %w", id, ErrNotFound)
	}
	return c, err
}

func (s *SinkConnectionStore) GetConnectionByName(name string) (*domain.SinkConnection, error) {
	c, err := scanConnection(s.db.Conn().QueryRow(`SELECT `+connColumns+` FROM sink_connections WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sink connection %q: %w", name, ErrNotFound)
	}
	return c, err
}

func (s *SinkConnectionStore) ListConnections() ([]domain.SinkConnection, error) {
	rows, err := s.db.Conn().Query(`SELECT ` + connColumns + ` FROM sink_connections ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []domain.SinkConnection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, *c)
	}
	return conns, rows.Err()
}

func (s *SinkConnectionStore) UpdateConnection(c *domain.SinkConnection) error {
	c.UpdatedAt = time.Now()
	_, err := s.db.Conn().Exec(
		`UPDATE sink_connections SET name=?, driver=?, host=?, port=?, database_name=?, username=?, ssl_mode=?, extra_json=?, updated_at=?
		 WHERE id=?`,
		c.Name, c.Driver, c.Host, c.Port, c.Database, c.Username, c.SSLMode, c.ExtraJSON, c.UpdatedAt, c.ID,
	)
	return err
}

func (s *SinkConnectionStore) DeleteConnection(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM sink_connections WHERE id = ?`, id)
	return err
}
