package password

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost factor de trabajo de bcrypt usado por el servicio.
const DefaultCost = 10

// maxBcryptInput bcrypt rechaza entradas de más de 72 bytes.
const maxBcryptInput = 72

// BcryptHasher hashea y verifica contraseñas con bcrypt (sal incluida en el digest).
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher construye el hasher. Un costo fuera del rango de bcrypt usa DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost devuelve el factor de trabajo efectivo.
func (h *BcryptHasher) Cost() int { return h.cost }

// Hash devuelve el digest bcrypt de plain.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("password: contraseña vacía")
	}
	hash, err := bcrypt.GenerateFromPassword(prepare(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compara en tiempo constante. Un digest malformado cuenta como no verificado.
func (h *BcryptHasher) Verify(plain, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), prepare(plain)) == nil
}

// prepare deja igual las contraseñas de hasta 72 bytes; las más largas se reducen a
// SHA-256 en base64 (44 bytes) para que todos sus bytes cuenten.
func prepare(plain string) []byte {
	if len(plain) <= maxBcryptInput {
		return []byte(plain)
	}
	sum := sha256.Sum256([]byte(plain))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
