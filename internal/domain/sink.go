package domain

import "time"

// SinkDriver represents the kind of external store a dataset is written to.
type SinkDriver string

const (
	SinkDriverMySQL    SinkDriver = "mysql"
	SinkDriverPostgres SinkDriver = "postgres"
	SinkDriverMongoDB  SinkDriver = "mongodb"
	SinkDriverSQLite   SinkDriver = "sqlite"
	SinkDriverBolt     SinkDriver = "bolt"
	SinkDriverDynamoDB SinkDriver = "dynamodb"
)

// SinkDrivers lists every supported driver.
var SinkDrivers = []SinkDriver{
	SinkDriverSQLite, SinkDriverMySQL, SinkDriverPostgres,
	SinkDriverMongoDB, SinkDriverBolt, SinkDriverDynamoDB,
}

// SinkConnection holds the metadata for connecting to an external store.
// The password is stored separately in the SecretStore.
type SinkConnection struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Driver    SinkDriver `json:"driver"`
	Host      string     `json:"host"`     // hostname, URI, or file path (sqlite, bolt)
	Port      int        `json:"port"`     // 0 for file-backed drivers
	Database  string     `json:"database"` // db name, or AWS region for dynamodb
	Username  string     `json:"username"` // access key id for dynamodb
	SSLMode   string     `json:"sslMode"`
	ExtraJSON string     `json:"extraJson"` // driver-specific options
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// SinkConnectionStore manages CRUD operations for sink connections.
type SinkConnectionStore interface {
	CreateConnection(c *SinkConnection) error
	GetConnection(id string) (*SinkConnection, error)
	GetConnectionByName(name string) (*SinkConnection, error)
	ListConnections() ([]SinkConnection, error)
	UpdateConnection(c *SinkConnection) error
	DeleteConnection(id string) error
}
