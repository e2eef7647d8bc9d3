package ids_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Identity-api/pkg/ids"
)

func TestNewID_EsUUID(t *testing.T) {
	_, err := uuid.Parse(ids.NewID())
	assert.NoError(t, err)
}

func TestNewTokenID_UnicoYOrdenado(t *testing.T) {
	seen := make(map[string]struct{})
	prev := ""
	for i := 0; i < 1000; i++ {
		id := ids.NewTokenID()
		_, err := ulid.ParseStrict(id)
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "token id repetido: %s", id)
		seen[id] = struct{}{}
		assert.Greater(t, id, prev)
		prev = id
	}
}
