package stimulus

import (
	"bufio"
	"fmt"
	"io"
)

// Write writes events to w in the stimulus file format, preceded by a
// comment header when header is not empty.
func Write(w io.Writer, header string, events []Event) error {
	bw := bufio.NewWriter(w)
	if header != "" {
		fmt.Fprintf(bw, "# %s\n", header)
	}
	for _, ev := range events {
		fmt.Fprintln(bw, ev)
	}
	return bw.Flush()
}

// A RegWriter writes one register.
type RegWriter interface {
	Write(addr, data uint8) error
}

// Recorder forwards register writes and records them as events stamped with
// the tick at which they start.
type Recorder struct {
	w      RegWriter
	now    func() uint64
	events []Event
}

// NewRecorder returns a recorder forwarding writes to w, now returns the
// current tick.
func NewRecorder(w RegWriter, now func() uint64) *Recorder {
	return &Recorder{w: w, now: now}
}

func (r *Recorder) Write(addr, data uint8) error {
	r.events = append(r.events, Event{Tick: r.now(), Addr: addr & 0x7F, Data: data})
	return r.w.Write(addr, data)
}

// Events returns the recorded events.
func (r *Recorder) Events() []Event { return r.events }
