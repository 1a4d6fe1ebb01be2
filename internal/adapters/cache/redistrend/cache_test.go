package redistrend

import (
	"context"
	"os"
	"testing"
	"time"

	"pet-care-backend/internal/domain/habits"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Redis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, addr, os.Getenv("TEST_REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer client.Close()

	c := New(client, time.Minute)
	petID := "test-pet-" + time.Now().Format("150405.000")
	defer client.Del(ctx, key(petID), genKey(petID))

	_, gen, ok, err := c.Get(ctx, petID, "2024-10-20")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), gen)

	report := habits.BuildTrend(petID, nil, "2024-10-20")
	require.NoError(t, c.Set(ctx, "2024-10-20", gen, report))

	got, _, ok, err := c.Get(ctx, petID, "2024-10-20")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, report, got)

	_, _, ok, err = c.Get(ctx, petID, "2024-10-21")
	require.NoError(t, err)
	assert.False(t, ok, "a report computed for another day is stale")

	require.NoError(t, c.Invalidate(ctx, petID))
	_, gen, ok, err = c.Get(ctx, petID, "2024-10-20")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), gen)
}

func TestCache_Redis_SetAfterInvalidateIsIgnored(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, addr, os.Getenv("TEST_REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer client.Close()

	c := New(client, time.Minute)
	petID := "test-pet-race-" + time.Now().Format("150405.000")
	defer client.Del(ctx, key(petID), genKey(petID))

	// un lector arranca el cálculo, llega un check-in y el lector guarda tarde
	_, startGen, _, err := c.Get(ctx, petID, "2024-10-20")
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, petID))
	stale := habits.BuildTrend(petID, nil, "2024-10-20")
	require.NoError(t, c.Set(ctx, "2024-10-20", startGen, stale))

	_, gen, ok, err := c.Get(ctx, petID, "2024-10-20")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, startGen+1, gen)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "trend:pet-1", key("pet-1"))
	assert.Equal(t, "trend-gen:pet-1", genKey("pet-1"))
}
