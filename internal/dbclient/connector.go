package dbclient

import (
	"context"
	"fmt"

	"github.com/chinazagideon/mock-generator/internal/domain"
	"github.com/chinazagideon/mock-generator/internal/etl"
)

// SchemaInfo lists the tables (or collections, buckets) of a sink.
type SchemaInfo struct {
	Tables []TableInfo `json:"tables"`
}

// TableInfo describes a table/collection.
type TableInfo struct {
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// ColumnInfo describes a column/field.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Connector abstracts writing datasets into an external store.
// Every connector is an etl.Destination.
type Connector interface {
	etl.Destination

	// TestConnection verifies connectivity.
	TestConnection(ctx context.Context) error

	// Introspect lists the targets that exist in the store.
	Introspect(ctx context.Context) (*SchemaInfo, error)
}

// NewConnector creates a Connector for the given sink connection.
// The password must be provided separately (from SecretStore).
func NewConnector(ctx context.Context, conn *domain.SinkConnection, password string) (Connector, error) {
	switch conn.Driver {
	case domain.SinkDriverSQLite:
		return newSQLiteConnector(conn)
	case domain.SinkDriverMySQL:
		return newSQLConnector("mysql", buildMySQLDSN(conn, password))
	case domain.SinkDriverPostgres:
		return newSQLConnector("postgres", buildPostgresDSN(conn, password))
	case domain.SinkDriverMongoDB:
		return newMongoConnector(conn, password)
	case domain.SinkDriverBolt:
		return newBoltConnector(conn)
	case domain.SinkDriverDynamoDB:
		return newDynamoConnector(ctx, conn, password)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", conn.Driver)
	}
}
