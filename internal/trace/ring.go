package trace

import (
	"errors"
	"io"
	"sync"
)

// RingTracer keeps only the most recent events. With a sink attached the
// kept events are written out on Close, which gives the tail of a long run
// without paying for every write.
type RingTracer struct {
	mu     sync.Mutex
	buf    []Event
	next   int // slot for the next event
	count  int // stored events, at most len(buf)
	level  Level
	sink   io.Writer
	format Format
}

// NewRingTracer creates a ring with room for size events.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = 4096
	}
	return &RingTracer{buf: make([]Event, size), level: level}
}

// DumpOnClose makes Close write the kept events to w in format.
func (t *RingTracer) DumpOnClose(w io.Writer, format Format) *RingTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sink, t.format = w, format
	return t
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf[t.next] = *ev
	t.buf[t.next].Seq = NextSeq()
	t.next = (t.next + 1) % len(t.buf)
	t.count = min(t.count+1, len(t.buf))
}

// Snapshot returns the kept events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *RingTracer) snapshotLocked() []Event {
	out := make([]Event, 0, t.count)
	first := (t.next - t.count + len(t.buf)) % len(t.buf)
	for i := range t.count {
		out = append(out, t.buf[(first+i)%len(t.buf)])
	}
	return out
}

// Len returns the number of kept events.
func (t *RingTracer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Dump writes the kept events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

// Close dumps to the sink, if any, and closes it unless it is a standard
// stream. The ring is emptied so a second Close writes nothing.
func (t *RingTracer) Close() error {
	t.mu.Lock()
	sink, format := t.sink, t.format
	events := t.snapshotLocked()
	t.count, t.next, t.sink = 0, 0, nil
	t.mu.Unlock()

	if sink == nil {
		return nil
	}
	var err error
	for _, ev := range events {
		if _, werr := sink.Write(FormatEvent(&ev, format)); werr != nil {
			err = werr
			break
		}
	}
	if closer, ok := sink.(io.Closer); ok && !isStdStream(sink) {
		err = errors.Join(err, closer.Close())
	}
	return err
}

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
