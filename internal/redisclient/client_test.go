package redisclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeductLevel(t *testing.T) {
	// Integration test - requires Redis. In real scenarios, use
	// testcontainers or a dedicated test instance.
	t.Skip("Integration test - requires Redis")

	client, err := NewClient("localhost:6379", "", 1)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, client.InitLevel(ctx, "Paracetamol", 10))

	level, err := client.DeductLevel(ctx, "Paracetamol", 3)
	assert.NoError(t, err)
	assert.Equal(t, 7, level)

	// floors at zero
	level, err = client.DeductLevel(ctx, "paracetamol", 20)
	assert.NoError(t, err)
	assert.Equal(t, 0, level)

	// untracked products report -1
	level, err = client.DeductLevel(ctx, "Unknown", 1)
	assert.NoError(t, err)
	assert.Equal(t, -1, level)
}

func TestIdempotencyKeyRoundTrip(t *testing.T) {
	t.Skip("Integration test - requires Redis")

	client, err := NewClient("localhost:6379", "", 1)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()

	seen, err := client.CheckIdempotencyKey(ctx, "key-test-1")
	assert.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, client.SetIdempotencyKey(ctx, "key-test-1", "sale-1", time.Minute))

	seen, err = client.CheckIdempotencyKey(ctx, "key-test-1")
	assert.NoError(t, err)
	assert.True(t, seen)
}
