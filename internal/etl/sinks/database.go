package sinks

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chinazagideon/mock-generator/internal/dbclient"
	"github.com/chinazagideon/mock-generator/internal/domain"
	"github.com/chinazagideon/mock-generator/internal/etl"
)

// ── Database Sinks ─────────────────────────────────────────
// One sink per dbclient driver. A job either names a stored connection
// ("connection": id or name) or carries the connection fields inline.

// ConnectionResolver looks up a stored connection and its password.
// The app layer implements this and injects it at startup.
type ConnectionResolver interface {
	ResolveConnection(ctx context.Context, ref string) (*domain.SinkConnection, string, error)
}

var resolver ConnectionResolver

// SetConnectionResolver is called by the app at startup.
func SetConnectionResolver(r ConnectionResolver) { resolver = r }

type databaseSink struct {
	driver domain.SinkDriver
	label  string
	target string
	fields []etl.ConfigField
}

func init() {
	connection := etl.ConfigField{Key: "connection", Label: "Saved connection", Type: "connection",
		Help: "ID or name of a saved connection; the fields below are ignored when set"}
	path := etl.ConfigField{Key: "path", Label: "File path", Type: "file"}
	host := etl.ConfigField{Key: "host", Label: "Host", Type: "string"}
	port := etl.ConfigField{Key: "port", Label: "Port", Type: "string"}
	database := etl.ConfigField{Key: "database", Label: "Database", Type: "string"}
	username := etl.ConfigField{Key: "username", Label: "Username", Type: "string"}
	password := etl.ConfigField{Key: "password", Label: "Password", Type: "password"}
	sslMode := etl.ConfigField{Key: "sslMode", Label: "SSL mode", Type: "select",
		Options: []string{"disable", "require"}, Default: "disable"}

	for _, s := range []*databaseSink{
		{driver: domain.SinkDriverSQLite, label: "SQLite", target: "table",
			fields: []etl.ConfigField{connection, path}},
		{driver: domain.SinkDriverMySQL, label: "MySQL", target: "table",
			fields: []etl.ConfigField{connection, host, port, database, username, password, sslMode}},
		{driver: domain.SinkDriverPostgres, label: "PostgreSQL", target: "table",
			fields: []etl.ConfigField{connection, host, port, database, username, password, sslMode}},
		{driver: domain.SinkDriverMongoDB, label: "MongoDB", target: "collection",
			fields: []etl.ConfigField{connection,
				{Key: "host", Label: "Host or URI", Type: "string", Help: "mongodb:// or mongodb+srv:// URIs are used as-is"},
				port, database, username, password}},
		{driver: domain.SinkDriverBolt, label: "Bolt", target: "bucket",
			fields: []etl.ConfigField{connection, path}},
		{driver: domain.SinkDriverDynamoDB, label: "DynamoDB", target: "table",
			fields: []etl.ConfigField{connection,
				{Key: "database", Label: "Region", Type: "string"},
				{Key: "host", Label: "Endpoint", Type: "string", Help: "Leave empty for AWS; set for DynamoDB Local"},
				{Key: "username", Label: "Access key ID", Type: "string", Help: "Empty uses the default credential chain"},
				{Key: "password", Label: "Secret access key", Type: "password"}}},
	} {
		etl.RegisterSink(s)
	}
}

func (s *databaseSink) Spec() etl.SinkSpec {
	return etl.SinkSpec{
		Type:         string(s.driver),
		Label:        s.label,
		Target:       s.target,
		ConfigFields: s.fields,
	}
}

func (s *databaseSink) Open(ctx context.Context, cfg etl.SinkConfig) (etl.Destination, error) {
	conn, password, err := s.connection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if conn.Driver != s.driver {
		return nil, fmt.Errorf("connection %q is %s, not %s", conn.Name, conn.Driver, s.driver)
	}
	return dbclient.NewConnector(ctx, conn, password)
}

// connection resolves the stored connection reference or reads inline fields.
func (s *databaseSink) connection(ctx context.Context, cfg etl.SinkConfig) (*domain.SinkConnection, string, error) {
	if ref := cfg.String("connection"); ref != "" {
		if resolver == nil {
			return nil, "", fmt.Errorf("connection resolver not initialized")
		}
		return resolver.ResolveConnection(ctx, ref)
	}

	conn := &domain.SinkConnection{
		Name:     string(s.driver),
		Driver:   s.driver,
		Host:     cfg.String("host"),
		Database: cfg.String("database"),
		Username: cfg.String("username"),
		SSLMode:  cfg.String("sslMode"),
	}
	if p := cfg.String("path"); p != "" {
		conn.Host = p
	}
	if p := cfg.String("port"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, "", fmt.Errorf("invalid port %q: %w", p, err)
		}
		conn.Port = port
	}
	return conn, cfg.String("password"), nil
}
