package secret

import (
	"os"
	"strings"
	"sync"
)

// EnvPrefix is prepended to the normalized key when reading the environment.
const EnvPrefix = "MOCKGEN_SECRET_"

// EnvStore reads secrets from MOCKGEN_SECRET_<KEY> environment variables.
// Values set at runtime are kept in memory and shadow the environment
// for the lifetime of the process.
type EnvStore struct {
	mem     *MemoryStore
	lookup  func(string) (string, bool)
	deleted sync.Map
}

// NewEnvStore creates a new EnvStore backed by os.LookupEnv.
func NewEnvStore() *EnvStore {
	return &EnvStore{mem: NewMemoryStore(), lookup: os.LookupEnv}
}

// EnvKey maps a secret key to its environment variable name.
// Anything outside [A-Z0-9] becomes an underscore.
func EnvKey(key string) string {
	var b strings.Builder
	b.WriteString(EnvPrefix)
	for _, r := range strings.ToUpper(key) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func (e *EnvStore) Set(key string, value []byte) error {
	e.deleted.Delete(key)
	return e.mem.Set(key, value)
}

func (e *EnvStore) Get(key string) ([]byte, error) {
	if v, _ := e.mem.Get(key); v != nil {
		return v, nil
	}
	if _, gone := e.deleted.Load(key); gone {
		return nil, nil
	}
	if v, ok := e.lookup(EnvKey(key)); ok {
		return []byte(v), nil
	}
	return nil, nil
}

// Delete forgets the runtime value and hides any environment value.
func (e *EnvStore) Delete(key string) error {
	e.deleted.Store(key, struct{}{})
	return e.mem.Delete(key)
}
