package trace

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithIDRoundTrip(t *testing.T) {
	ctx := WithID(context.Background(), "abc-123")

	id, ok := IDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc-123", id)
}

func TestIDFromContextMissing(t *testing.T) {
	id, ok := IDFromContext(context.Background())
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestIDFromContextEmptyValue(t *testing.T) {
	ctx := WithID(context.Background(), "")
	_, ok := IDFromContext(ctx)
	assert.False(t, ok)
}

func TestEnsureIDReturnsExisting(t *testing.T) {
	ctx := WithID(context.Background(), "existing")
	assert.Equal(t, "existing", EnsureID(ctx))
}

func TestEnsureIDGeneratesUUID(t *testing.T) {
	id := EnsureID(context.Background())
	_, err := uuid.Parse(id)
	require.NoError(t, err)
}

func TestGenerateTraceParentFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^00-[0-9a-f]{32}-[0-9a-f]{16}-01$`)

	for i := 0; i < 10; i++ {
		tp := GenerateTraceParent()
		assert.Regexp(t, pattern, tp)
	}
}

func TestGenerateTraceParentUnique(t *testing.T) {
	assert.NotEqual(t, GenerateTraceParent(), GenerateTraceParent())
}
