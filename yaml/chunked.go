package yaml

import (
	"io"
	"sync"

	"github.com/willabides/texty/internal/parserc"
	"github.com/willabides/texty/internal/yamlh"
)

// chunkedStream bridges the underlying blocking, io.Reader-driven scanner
// into the incremental Feed/Finish shape spec §4.5 requires (already true
// of the CSV and JSON engines). The scanner itself still runs to
// completion in one synchronous call per event, reading through Reader
// whenever its internal buffer runs dry; chunkedStream supplies that
// Reader as itself, blocking Read until Feed hands it more bytes instead
// of returning early or erroring, and runs the scanner on a background
// goroutine so a caller's Feed call never has to block on input it hasn't
// provided yet.
type chunkedStream struct {
	p *parserc.YamlParser

	mu       sync.Mutex
	cond     *sync.Cond
	buf      []byte
	closed   bool // Finish was called: no further bytes will ever arrive
	waiting  bool // the background goroutine is blocked in Read for more input
	raw      []*yamlh.Event
	err      error
	finished bool // the background goroutine has stopped for good
}

func newChunkedStream() *chunkedStream {
	cs := &chunkedStream{}
	cs.cond = sync.NewCond(&cs.mu)
	cs.p = parserc.New(cs)
	go cs.run()
	return cs
}

// Read implements io.Reader for the scanner's Buffer refill. It blocks
// until data is available, Finish has closed the stream, or both.
func (cs *chunkedStream) Read(p []byte) (int, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for len(cs.buf) == 0 && !cs.closed {
		cs.waiting = true
		cs.cond.Broadcast()
		cs.cond.Wait()
	}
	cs.waiting = false
	if len(cs.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(p, cs.buf)
	cs.buf = cs.buf[n:]
	return n, nil
}

// run drives the scanner to completion, one event at a time, parking in
// Read whenever it needs bytes Feed hasn't supplied yet.
func (cs *chunkedStream) run() {
	for {
		ev, err := parserc.Parse(cs.p)
		cs.mu.Lock()
		if err != nil {
			cs.err = err
			cs.finished = true
			cs.cond.Broadcast()
			cs.mu.Unlock()
			return
		}
		cs.raw = append(cs.raw, ev)
		stop := ev.Type == yamlh.STREAM_END_EVENT
		if stop {
			cs.finished = true
		}
		cs.cond.Broadcast()
		cs.mu.Unlock()
		if stop {
			return
		}
	}
}

// push appends data (and, if eof, marks the stream closed), then waits
// until the background goroutine has derived every event the buffered
// input determines and has either blocked for more or finished for good.
// It returns the events harvested since the previous push.
func (cs *chunkedStream) push(data []byte, eof bool) ([]*yamlh.Event, error) {
	cs.mu.Lock()
	cs.buf = append(cs.buf, data...)
	if eof {
		cs.closed = true
	}
	cs.cond.Broadcast()
	for !cs.finished && (eof || len(cs.buf) != 0 || !cs.waiting) {
		cs.cond.Wait()
	}
	out := cs.raw
	cs.raw = nil
	err := cs.err
	cs.mu.Unlock()
	return out, err
}
