package reqid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext_StoresID(t *testing.T) {
	ctx, id := NewContext(context.Background())

	require.NotEmpty(t, id)
	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestNewContext_IDsAreUnique(t *testing.T) {
	_, a := NewContext(context.Background())
	_, b := NewContext(context.Background())

	assert.NotEqual(t, a, b)
}

func TestFromContext_MissingID(t *testing.T) {
	_, ok := FromContext(context.Background())

	assert.False(t, ok)
}
