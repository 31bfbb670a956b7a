package emu

import (
	"io"
	"time"

	"github.com/go-faster/jx"
	"github.com/pkg/errors"
)

// TimelineStats reports the progress of one timeline.
type TimelineStats struct {
	Name       string
	Dispatched int
	Pending    int
}

// Result summarizes a run.
type Result struct {
	Name       string
	Ticks      uint64 // since power-up
	RunTicks   uint64 // since the origin
	SimTime    time.Duration
	Samples    uint64
	Bits       uint64
	Bytes      uint64
	Writes     uint64 // SPI writes performed during the run
	Events     uint64
	Timelines  []TimelineStats
	Iterations uint64
	Wall       time.Duration
	Err        string
}

// WriteReport writes r to w as JSON.
func WriteReport(w io.Writer, r *Result) error {
	var e jx.Encoder
	e.SetIdent(2)

	e.Obj(func(e *jx.Encoder) {
		if r.Name != "" {
			e.Field("name", func(e *jx.Encoder) { e.Str(r.Name) })
		}
		e.Field("ticks", func(e *jx.Encoder) { e.UInt64(r.Ticks) })
		e.Field("run_ticks", func(e *jx.Encoder) { e.UInt64(r.RunTicks) })
		e.Field("sim_time_ns", func(e *jx.Encoder) { e.Int64(int64(r.SimTime)) })
		e.Field("samples", func(e *jx.Encoder) { e.UInt64(r.Samples) })
		e.Field("bits", func(e *jx.Encoder) { e.UInt64(r.Bits) })
		e.Field("bytes", func(e *jx.Encoder) { e.UInt64(r.Bytes) })
		e.Field("writes", func(e *jx.Encoder) { e.UInt64(r.Writes) })
		e.Field("events", func(e *jx.Encoder) { e.UInt64(r.Events) })
		e.Field("timelines", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, tl := range r.Timelines {
					e.Obj(func(e *jx.Encoder) {
						e.Field("name", func(e *jx.Encoder) { e.Str(tl.Name) })
						e.Field("dispatched", func(e *jx.Encoder) { e.Int(tl.Dispatched) })
						e.Field("pending", func(e *jx.Encoder) { e.Int(tl.Pending) })
					})
				}
			})
		})
		e.Field("iterations", func(e *jx.Encoder) { e.UInt64(r.Iterations) })
		e.Field("wall_ns", func(e *jx.Encoder) { e.Int64(int64(r.Wall)) })
		if r.Err != "" {
			e.Field("error", func(e *jx.Encoder) { e.Str(r.Err) })
		}
	})

	buf := append(e.Bytes(), '\n')
	_, err := w.Write(buf)
	return err
}

// ReadReport reads a report written by WriteReport. Unknown fields are
// ignored.
func ReadReport(r io.Reader) (*Result, error) {
	var res Result
	d := jx.Decode(r, 4096)

	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			res.Name, err = d.Str()
		case "ticks":
			res.Ticks, err = d.UInt64()
		case "run_ticks":
			res.RunTicks, err = d.UInt64()
		case "sim_time_ns":
			res.SimTime, err = decodeDuration(d)
		case "samples":
			res.Samples, err = d.UInt64()
		case "bits":
			res.Bits, err = d.UInt64()
		case "bytes":
			res.Bytes, err = d.UInt64()
		case "writes":
			res.Writes, err = d.UInt64()
		case "events":
			res.Events, err = d.UInt64()
		case "timelines":
			err = d.Arr(func(d *jx.Decoder) error {
				st, err := decodeTimelineStats(d)
				res.Timelines = append(res.Timelines, st)
				return err
			})
		case "iterations":
			res.Iterations, err = d.UInt64()
		case "wall_ns":
			res.Wall, err = decodeDuration(d)
		case "error":
			res.Err, err = d.Str()
		default:
			err = d.Skip()
		}
		return errors.Wrap(err, key)
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading report")
	}
	return &res, nil
}

func decodeDuration(d *jx.Decoder) (time.Duration, error) {
	v, err := d.Int64()
	return time.Duration(v), err
}

func decodeTimelineStats(d *jx.Decoder) (TimelineStats, error) {
	var st TimelineStats
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			st.Name, err = d.Str()
		case "dispatched":
			st.Dispatched, err = d.Int()
		case "pending":
			st.Pending, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
	return st, err
}
