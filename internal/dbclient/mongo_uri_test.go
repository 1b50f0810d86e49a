package dbclient

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chinazagideon/mock-generator/internal/domain"
)

func TestMongoURIFromParts(t *testing.T) {
	uri, db := mongoURI(&domain.SinkConnection{
		Driver:    domain.SinkDriverMongoDB,
		Host:      "localhost",
		Username:  "app",
		ExtraJSON: `{"replicaSet":"rs0","authSource":"admin"}`,
	}, "pw")
	assert.Equal(t, "mongodb://app:pw@localhost:27017/?authSource=admin&replicaSet=rs0", uri)
	assert.Equal(t, "test", db)
}

func TestMongoURIPlaceholderAndPathDatabase(t *testing.T) {
	uri, db := mongoURI(&domain.SinkConnection{
		Driver: domain.SinkDriverMongoDB,
		Host:   "mongodb+srv://app:<password>@cluster0.example.net/shop?retryWrites=true",
	}, "pw")
	assert.Equal(t, "mongodb+srv://app:pw@cluster0.example.net/shop?retryWrites=true", uri)
	assert.Equal(t, "shop", db)
}

func TestExtraQueryIgnoresBadJSON(t *testing.T) {
	assert.Empty(t, extraQuery(""))
	assert.Empty(t, extraQuery("{not json"))
	assert.Empty(t, extraQuery(`{"n": 1}`))
}
