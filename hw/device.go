package hw

import "github.com/pkg/errors"

//go:generate go tool stringer -type=Pin -output=pin_string.go

// Pin identifies one pin of a device under test.
type Pin uint8

const (
	Clk Pin = iota
	RstN
	CS
	SCLK
	MOSI
	MISO
	Wave
	NumPins
)

// ErrTerminated is the cause of the error reported by a clock once the device
// model has stopped evaluating.
var ErrTerminated = errors.New("device terminated")

// A Device is a synchronous clocked device seen through its pins.
//
// Set drives an input pin, Get reads back any pin, and Eval recomputes the
// outputs after inputs changed. A non-nil error from Eval means the model has
// terminated abnormally and can't be evaluated anymore.
type Device interface {
	Set(pin Pin, v bool)
	Get(pin Pin) bool
	Eval() error
}

// A Finalizer is a device that must be notified when a run ends.
type Finalizer interface {
	Final()
}

// Pins is a plain pin array, usable as storage by simple device models.
type Pins [NumPins]bool

func (p *Pins) Set(pin Pin, v bool) { p[pin] = v }
func (p *Pins) Get(pin Pin) bool    { return p[pin] }

// B2U converts a boolean to 0 or 1.
func B2U(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
