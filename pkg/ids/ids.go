package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID devuelve un UUID v4 para claves primarias de usuarios, organizaciones y sesiones.
func NewID() string {
	return uuid.New().String()
}

// NewTokenID devuelve un ULID (ordenable, no adivinable) usado como identificador de token.
func NewTokenID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
