package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTenantContext(t *testing.T) {
	t.Run("Unset context denies", func(t *testing.T) {
		id, ok := FromContext(context.Background())
		assert.False(t, ok)
		assert.Equal(t, NoProperty, id)
		_, err := Require(context.Background())
		assert.ErrorIs(t, err, ErrNoTenant)
	})

	t.Run("Set and read", func(t *testing.T) {
		ctx := Set(context.Background(), 42)
		id, ok := FromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, int64(42), id)
		assert.Equal(t, int64(42), Current(ctx))
	})

	t.Run("Clear does not touch the parent", func(t *testing.T) {
		parent := Set(context.Background(), 42)
		cleared := Clear(parent)
		assert.Equal(t, NoProperty, Current(cleared))
		assert.Equal(t, int64(42), Current(parent))
	})

	t.Run("Setting zero is not a tenant", func(t *testing.T) {
		_, ok := FromContext(Set(context.Background(), NoProperty))
		assert.False(t, ok)
	})

	t.Run("Nested requests do not leak", func(t *testing.T) {
		base := context.Background()
		a := Set(base, 1)
		b := Set(base, 2)
		assert.Equal(t, int64(1), Current(a))
		assert.Equal(t, int64(2), Current(b))
		assert.Equal(t, NoProperty, Current(base))
	})
}
