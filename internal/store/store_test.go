package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	kv := NewMemory()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "key", []byte(`{"a":1}`)))
	value, err := kv.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), value)

	require.NoError(t, kv.Delete(ctx, "key"))
	_, err = kv.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	kv := NewMemory()
	ctx := context.Background()

	original := []byte("payload")
	require.NoError(t, kv.Set(ctx, "key", original))
	original[0] = 'X'

	value, err := kv.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), value)

	value[0] = 'Y'
	again, err := kv.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), again)
}

func TestFilePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "admin_events", []byte(`[]`)))

	second, err := NewFile(dir)
	require.NoError(t, err)
	value, err := second.Get(ctx, "admin_events")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value)

	require.NoError(t, second.Delete(ctx, "admin_events"))
	_, err = second.Get(ctx, "admin_events")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileDeleteMissingKeyIsNoop(t *testing.T) {
	kv, err := NewFile(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, kv.Delete(context.Background(), "never_written"))
}

type recordingObserver struct {
	ops []string
}

func (r *recordingObserver) ObserveStoreOperation(op string, _ time.Duration) {
	r.ops = append(r.ops, op)
}

func TestInstrumentedObservesOperations(t *testing.T) {
	obs := &recordingObserver{}
	kv := NewInstrumented(NewMemory(), obs)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "key", []byte("v")))
	_, err := kv.Get(ctx, "key")
	require.NoError(t, err)
	require.NoError(t, kv.Delete(ctx, "key"))

	assert.Equal(t, []string{"set", "get", "delete"}, obs.ops)
}
