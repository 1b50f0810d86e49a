package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "MOCKGEN_SECRET_LOCAL_PG", EnvKey("local-pg"))
	assert.Equal(t, "MOCKGEN_SECRET_3F2A_9C", EnvKey("3f2a.9c"))
}

func TestEnvStore(t *testing.T) {
	env := map[string]string{"MOCKGEN_SECRET_PROD": "from-env"}
	s := NewEnvStore()
	s.lookup = func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	v, err := s.Get("prod")
	require.NoError(t, err)
	assert.Equal(t, "from-env", string(v))

	require.NoError(t, s.Set("prod", []byte("runtime")))
	v, _ = s.Get("prod")
	assert.Equal(t, "runtime", string(v))

	require.NoError(t, s.Delete("prod"))
	v, _ = s.Get("prod")
	assert.Nil(t, v)

	v, _ = s.Get("missing")
	assert.Nil(t, v)
}

func TestMemoryStoreCopies(t *testing.T) {
	s := NewMemoryStore()
	buf := []byte("secret")
	require.NoError(t, s.Set("k", buf))
	buf[0] = 'X'

	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "secret", string(v))

	require.NoError(t, s.Delete("k"))
	v, _ = s.Get("k")
	assert.Nil(t, v)
}

var _ SecretStore = (*EnvStore)(nil)
var _ SecretStore = (*MemoryStore)(nil)
