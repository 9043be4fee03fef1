package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type memCollection struct {
	mu      sync.Mutex
	entries []Entry
}

func (m *memCollection) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		m.entries = append(m.entries, d.(Entry))
	}
	return &mongo.InsertManyResult{}, nil
}

func (m *memCollection) all() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

func TestMongoHandler_WritesEntriesOnClose(t *testing.T) {
	col := &memCollection{}
	h := NewMongoHandler(col, slog.LevelInfo)
	log := slog.New(h).With("request_id", "req-1").With("component", "orders")

	log.Debug("skipped")
	log.Info("order created", "order_id", int64(42), "total", 200.0)
	log.WithGroup("upload").Warn("rejected", "reason", errors.New("too large"), "took", 3*time.Millisecond)

	h.Close(context.Background())

	entries := col.all()
	require.Len(t, entries, 2)

	assert.Equal(t, "order created", entries[0].Message)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.Equal(t, "orders", entries[0].Component)
	assert.Equal(t, int64(42), entries[0].Attrs["order_id"])
	assert.Equal(t, 200.0, entries[0].Attrs["total"])

	assert.Equal(t, "WARN", entries[1].Level)
	assert.Equal(t, "too large", entries[1].Attrs["upload_reason"])
	assert.Equal(t, "3ms", entries[1].Attrs["upload_took"])
}

func TestMongoHandler_CloseTwice(t *testing.T) {
	h := NewMongoHandler(&memCollection{}, slog.LevelInfo)
	h.Close(context.Background())
	assert.NotPanics(t, func() { h.Close(context.Background()) })
	assert.Zero(t, h.Dropped())
}

func TestAttach_FansOut(t *testing.T) {
	var buf bytes.Buffer
	Setup("local", &buf)
	t.Cleanup(func() { Setup("test", &bytes.Buffer{}) })

	col := &memCollection{}
	h := NewMongoHandler(col, slog.LevelWarn)
	Attach(h)

	Info("catalog read")
	Warn("store slow", "op", "save")
	h.Close(context.Background())

	assert.Contains(t, buf.String(), "catalog read")
	assert.Contains(t, buf.String(), "store slow")

	entries := col.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "store slow", entries[0].Message)
	assert.Equal(t, "save", entries[0].Attrs["op"])
}
