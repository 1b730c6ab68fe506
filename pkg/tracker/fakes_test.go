package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aretw0/timethings/pkg/core"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memHeaders is a HeaderProcessor over in-memory trees.
type memHeaders struct {
	docs   map[string]core.Metadata
	calls  int
	failOn string
}

var errHost = errors.New("host failure")

func newMemHeaders() *memHeaders {
	return &memHeaders{docs: make(map[string]core.Metadata)}
}

func (h *memHeaders) ProcessHeader(_ context.Context, id string, fn func(core.Metadata) error) error {
	h.calls++
	if id == h.failOn {
		return errHost
	}
	m, ok := h.docs[id]
	if !ok {
		m = core.Metadata{}
		h.docs[id] = m
	}
	return fn(m)
}

// memLines is a LineEditor over in-memory documents.
type memLines struct {
	docs map[string]core.Lines
}

func newMemLines() *memLines {
	return &memLines{docs: make(map[string]core.Lines)}
}

func (l *memLines) EditLines(_ context.Context, id string, fn func(core.LineDocument) error) error {
	doc, ok := l.docs[id]
	if !ok {
		return errors.New("no such document: " + id)
	}
	return fn(doc)
}

type recordingSink struct {
	durations map[string]int64
	clocks    []string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{durations: make(map[string]int64)}
}

func (s *recordingSink) EditDuration(id string, seconds int64) { s.durations[id] = seconds }
func (s *recordingSink) Clock(text string)                     { s.clocks = append(s.clocks, text) }
