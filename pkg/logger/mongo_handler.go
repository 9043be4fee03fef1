package logger

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoQueueSize  = 4096
	mongoBatchSize  = 50
	mongoFlushEvery = 2 * time.Second
)

// Inserter is the slice of *mongo.Collection the handler writes through.
type Inserter interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// Entry is one stored log line.
type Entry struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Message   string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Component string    `bson:"component,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// mongoSink owns the queue and the drain goroutine shared by every handler
// derived through WithAttrs/WithGroup.
type mongoSink struct {
	col     Inserter
	queue   chan Entry
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

// MongoHandler is an slog.Handler that batches records into a collection.
// Handle never blocks: when the queue is full the record is dropped and
// counted.
type MongoHandler struct {
	sink   *mongoSink
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewMongoHandler starts draining into col. Records below level are ignored.
func NewMongoHandler(col Inserter, level slog.Leveler) *MongoHandler {
	sink := &mongoSink{
		col:     col,
		queue:   make(chan Entry, mongoQueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go sink.drain()
	return &MongoHandler{sink: sink, level: level}
}

func (h *MongoHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	e := Entry{
		Time:    r.Time.UTC(),
		Level:   r.Level.String(),
		Message: r.Message,
	}
	for _, a := range h.attrs {
		e.add("", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		e.add(h.prefix, a)
		return true
	})

	select {
	case h.sink.queue <- e:
	default:
		h.sink.dropped.Add(1)
	}
	return nil
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// Dropped reports how many records were discarded on a full queue.
func (h *MongoHandler) Dropped() int64 { return h.sink.dropped.Load() }

// Close stops the drain loop after writing everything still queued. It is
// safe to call more than once.
func (h *MongoHandler) Close(ctx context.Context) {
	h.sink.once.Do(func() { close(h.sink.done) })
	select {
	case <-h.sink.stopped:
	case <-ctx.Done():
	}
}

func (e *Entry) add(prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := prefix + a.Key
	switch key {
	case "request_id":
		e.RequestID = a.Value.String()
		return
	case "component":
		e.Component = a.Value.String()
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, inner := range a.Value.Group() {
			e.add(key+".", inner)
		}
		return
	}
	if e.Attrs == nil {
		e.Attrs = bson.M{}
	}
	// Mongo field names cannot contain dots.
	e.Attrs[strings.ReplaceAll(key, ".", "_")] = attrValue(a.Value)
}

func attrValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.String()
	default:
		return v.Any()
	}
}

func (s *mongoSink) drain() {
	defer close(s.stopped)

	ticker := time.NewTicker(mongoFlushEvery)
	defer ticker.Stop()

	batch := make([]interface{}, 0, mongoBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Losing a batch must not surface through the logger itself.
		_, _ = s.col.InsertMany(ctx, batch)
		batch = batch[:0]
	}

	for {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			if len(batch) >= mongoBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			for {
				select {
				case e := <-s.queue:
					batch = append(batch, e)
					if len(batch) >= mongoBatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
