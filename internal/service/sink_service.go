package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chinazagideon/mock-generator/internal/dbclient"
	"github.com/chinazagideon/mock-generator/internal/domain"
	"github.com/chinazagideon/mock-generator/internal/secret"
	"github.com/chinazagideon/mock-generator/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Sink Service — saved connections for database sinks
// ─────────────────────────────────────────────────────────────

// SinkConnInput is the service-layer DTO for creating/updating connections.
type SinkConnInput struct {
	Name      string `json:"name"`
	Driver    string `json:"driver"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Database  string `json:"database"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	SSLMode   string `json:"sslMode"`
	ExtraJSON string `json:"extraJson"`
}

// SinkService manages saved sink connections. Passwords live in the
// SecretStore keyed by connection ID; connectors are opened per call
// because file-backed stores (bolt) hold an exclusive lock while open.
type SinkService struct {
	connStore domain.SinkConnectionStore
	secrets   secret.SecretStore
}

// NewSinkService creates a SinkService.
func NewSinkService(connStore domain.SinkConnectionStore, secrets secret.SecretStore) *SinkService {
	return &SinkService{connStore: connStore, secrets: secrets}
}

func secretKey(id string) string { return "sink:" + id }

// ── Connection CRUD ────────────────────────────────────────

func (s *SinkService) ListConnections() ([]domain.SinkConnection, error) {
	return s.connStore.ListConnections()
}

func (s *SinkService) CreateConnection(input SinkConnInput) (*domain.SinkConnection, error) {
	if err := validDriver(input.Driver); err != nil {
		return nil, err
	}
	conn := &domain.SinkConnection{
		Name:      input.Name,
		Driver:    domain.SinkDriver(input.Driver),
		Host:      input.Host,
		Port:      input.Port,
		Database:  input.Database,
		Username:  input.Username,
		SSLMode:   input.SSLMode,
		ExtraJSON: input.ExtraJSON,
	}
	if err := s.connStore.CreateConnection(conn); err != nil {
		return nil, fmt.Errorf("create connection: %w", err)
	}
	if input.Password != "" && s.secrets != nil {
		if err := s.secrets.Set(secretKey(conn.ID), []byte(input.Password)); err != nil {
			return nil, fmt.Errorf("store password: %w", err)
		}
	}
	return conn, nil
}

func (s *SinkService) UpdateConnection(id string, input SinkConnInput) error {
	if err := validDriver(input.Driver); err != nil {
		return err
	}
	conn, err := s.connStore.GetConnection(id)
	if err != nil {
		return err
	}
	conn.Name = input.Name
	conn.Driver = domain.SinkDriver(input.Driver)
	conn.Host = input.Host
	conn.Port = input.Port
	conn.Database = input.Database
	conn.Username = input.Username
	conn.SSLMode = input.SSLMode
	if input.ExtraJSON != "" {
		conn.ExtraJSON = input.ExtraJSON
	}
	if err := s.connStore.UpdateConnection(conn); err != nil {
		return err
	}
	if input.Password != "" && s.secrets != nil {
		return s.secrets.Set(secretKey(id), []byte(input.Password))
	}
	return nil
}

func (s *SinkService) DeleteConnection(id string) error {
	if s.secrets != nil {
		_ = s.secrets.Delete(secretKey(id))
	}
	return s.connStore.DeleteConnection(id)
}

// ResolveConnection finds a saved connection by ID or name and returns
// it with its password. Used by the database sinks at job run time.
func (s *SinkService) ResolveConnection(_ context.Context, ref string) (*domain.SinkConnection, string, error) {
	conn, err := s.connStore.GetConnection(ref)
	if errors.Is(err, storage.ErrNotFound) {
		conn, err = s.connStore.GetConnectionByName(ref)
	}
	if err != nil {
		return nil, "", err
	}
	var password string
	if s.secrets != nil {
		if pw, err := s.secrets.Get(secretKey(conn.ID)); err == nil {
			password = string(pw)
		}
	}
	return conn, password, nil
}

// ── Test + Introspect ──────────────────────────────────────

func (s *SinkService) TestConnection(ctx context.Context, ref string) error {
	connector, err := s.open(ctx, ref)
	if err != nil {
		return err
	}
	defer connector.Close()
	return connector.TestConnection(ctx)
}

func (s *SinkService) Introspect(ctx context.Context, ref string) (*dbclient.SchemaInfo, error) {
	connector, err := s.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer connector.Close()
	return connector.Introspect(ctx)
}

func (s *SinkService) open(ctx context.Context, ref string) (dbclient.Connector, error) {
	conn, password, err := s.ResolveConnection(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("get connection %s: %w", ref, err)
	}
	connector, err := dbclient.NewConnector(ctx, conn, password)
	if err != nil {
		return nil, fmt.Errorf("open sink connection: %w", err)
	}
	return connector, nil
}

func validDriver(driver string) error {
	for _, d := range domain.SinkDrivers {
		if string(d) == driver {
			return nil
		}
	}
	return fmt.Errorf("unsupported driver: %s", driver)
}
