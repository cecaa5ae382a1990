package slogx

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// Entry is a captured log record with its attributes flattened.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// Recorder is a slog.Handler that keeps every record in memory so tests can
// assert on the sequence of events a component logged.
type Recorder struct {
	mu      *sync.Mutex
	entries *[]Entry
	attrs   []slog.Attr
}

func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

// Logger returns a logger writing into the recorder.
func (r *Recorder) Logger() *slog.Logger { return slog.New(r) }

func (r *Recorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	e := Entry{Level: rec.Level, Message: rec.Message, Attrs: map[string]any{}}
	for _, a := range r.attrs {
		e.Attrs[a.Key] = a.Value.Resolve().Any()
	}
	rec.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.Resolve().Any()
		return true
	})

	r.mu.Lock()
	*r.entries = append(*r.entries, e)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Recorder{mu: r.mu, entries: r.entries, attrs: append(slices.Clone(r.attrs), attrs...)}
}

// WithGroup is flattened; group names are not needed by any assertion.
func (r *Recorder) WithGroup(string) slog.Handler { return r }

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(*r.entries)
}

// Values returns, for every entry logged as msg that carries attribute
// key, the attribute's value, in order.
func (r *Recorder) Values(msg, key string) []any {
	var out []any
	for _, e := range r.Entries() {
		if v, ok := e.Attrs[key]; ok && e.Message == msg {
			out = append(out, v)
		}
	}
	return out
}
