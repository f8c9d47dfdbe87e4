package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eino_grocery_bot/internal/core"
	"eino_grocery_bot/pkg"
)

// the processor consumes the stores through its own interfaces
var (
	_ core.ContextStore  = (*MemoryContextStore)(nil)
	_ core.ContextStore  = (*RedisContextStore)(nil)
	_ core.UnansweredLog = (*JSONUnansweredLog)(nil)
)

func TestMemoryContextStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryContextStore(time.Minute)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	convCtx, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, convCtx.IsEmpty())

	want := pkg.ConversationContext{LastItem: "apple", LastCategory: "fruits"}
	require.NoError(t, store.Save(ctx, "s1", want))

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	other, err := store.Load(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty(), "sessions must not share context")

	now = now.Add(2 * time.Minute)
	expired, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, expired.IsEmpty())
}

func TestMemoryContextStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryContextStore(0)

	require.NoError(t, store.Save(ctx, "s1", pkg.ConversationContext{LastItem: "milk", LastCategory: "dairy"}))
	require.NoError(t, store.Reset(ctx, "s1"))

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())

	assert.ErrorIs(t, store.Reset(ctx, "s1"), ErrSessionNotFound)
}

func TestContextStores_RejectEmptySessionID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryContextStore(0)

	_, err := store.Load(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidSessionID)
	assert.ErrorIs(t, store.Save(ctx, "", pkg.ConversationContext{}), ErrInvalidSessionID)
}

func TestRedisContextStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	store := NewRedisContextStore(client, 10*time.Minute)

	empty, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	want := pkg.ConversationContext{LastItem: "rice", LastCategory: "groceries"}
	require.NoError(t, store.Save(ctx, "s1", want))
	assert.True(t, mr.Exists(contextPrefix+"s1"))

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ttl, err := store.TTL(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, ttl)

	mr.FastForward(11 * time.Minute)
	expired, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, expired.IsEmpty())

	require.NoError(t, store.Save(ctx, "s1", want))
	require.NoError(t, store.Reset(ctx, "s1"))
	assert.False(t, mr.Exists(contextPrefix+"s1"))
	assert.ErrorIs(t, store.Reset(ctx, "s1"), ErrSessionNotFound)
}

func TestRedisContextStore_InconsistentValue(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set(contextPrefix+"s1", `{"last_item":"tea"}`))

	client, err := NewRedisClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	_, err = NewRedisContextStore(client, 0).Load(ctx, "s1")
	assert.Error(t, err)
}

func TestRedisContextStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set(contextPrefix+"s1", "{not json"))

	client, err := NewRedisClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	_, err = NewRedisContextStore(client, 0).Load(ctx, "s1")
	assert.Error(t, err)
}

func TestNewRedisClient_Errors(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "")
	assert.Error(t, err)

	_, err = NewRedisClient(context.Background(), "not-a-url://")
	assert.Error(t, err)
}

func TestJSONUnansweredLog_CreatesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "unanswered.json")

	log, err := NewJSONUnansweredLog(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	records, err := log.List()
	require.NoError(t, err)
	assert.Empty(t, records)

	ts := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	require.NoError(t, log.Append(pkg.UnansweredRecord{Question: "do you repair phones", Timestamp: ts}))
	require.NoError(t, log.Append(pkg.UnansweredRecord{Question: "do you repair phones", Timestamp: ts}))

	records, err = log.List()
	require.NoError(t, err)
	require.Len(t, records, 2, "records are never deduplicated")
	assert.Equal(t, "do you repair phones", records[0].Question)
	assert.True(t, records[1].Timestamp.Equal(ts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"question": "do you repair phones"`)
	assert.Contains(t, string(data), `"timestamp": "2026-10-16T09:30:00Z"`)
}

func TestJSONUnansweredLog_RecoversFromCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unanswered.json")
	require.NoError(t, os.WriteFile(path, []byte("{{ definitely not json"), 0644))

	log, err := NewJSONUnansweredLog(path)
	require.NoError(t, err)

	_, err = log.List()
	assert.Error(t, err)

	require.NoError(t, log.Append(pkg.UnansweredRecord{Question: "where is my refund", Timestamp: time.Now()}))

	records, err := log.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "where is my refund", records[0].Question)
}

func TestJSONUnansweredLog_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unanswered.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	log, err := NewJSONUnansweredLog(path)
	require.NoError(t, err)

	records, err := log.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestValidateContext(t *testing.T) {
	assert.NoError(t, ValidateContext(pkg.ConversationContext{}))
	assert.NoError(t, ValidateContext(pkg.ConversationContext{LastItem: "tea", LastCategory: "beverages"}))
	assert.Error(t, ValidateContext(pkg.ConversationContext{LastItem: "tea"}))
}
