package hw

import (
	"time"

	"github.com/pkg/errors"

	"sidbench/emu/log"
)

// Clock drives the clock pin of a device and keeps the simulation time base.
// One tick is a full clock period: the clock pin goes low then high and the
// device is evaluated after each transition.
type Clock struct {
	dev      Device
	periodPs uint64
	ticks    uint64
	timePs   uint64

	observers []func(tick uint64)
	err       error
}

// NewClock returns a clock driving dev at hz.
func NewClock(dev Device, hz uint64) *Clock {
	return &Clock{
		dev:      dev,
		periodPs: 1e12 / hz,
	}
}

// Observe registers fn to be called after every tick with the updated tick
// count. Observers are called in registration order.
func (c *Clock) Observe(fn func(tick uint64)) {
	c.observers = append(c.observers, fn)
}

// Tick advances the device by one clock period. Once the device has
// terminated, Tick returns the same error forever and the clock doesn't move.
func (c *Clock) Tick() error {
	if c.err != nil {
		return c.err
	}

	half := c.periodPs / 2

	c.dev.Set(Clk, false)
	if err := c.dev.Eval(); err != nil {
		return c.terminate(err)
	}
	c.timePs += half

	c.dev.Set(Clk, true)
	if err := c.dev.Eval(); err != nil {
		return c.terminate(err)
	}
	c.timePs += c.periodPs - half

	c.ticks++
	for _, fn := range c.observers {
		fn(c.ticks)
	}
	return nil
}

// TickBatch performs n ticks in order.
func (c *Clock) TickBatch(n uint64) error {
	for range n {
		if err := c.Tick(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Clock) terminate(err error) error {
	c.err = errors.Wrapf(ErrTerminated, "tick %d: %v", c.ticks, err)
	log.ModClock.ErrorZ("device terminated").
		Error("err", err).
		End()
	return c.err
}

// Ticks returns the number of completed ticks.
func (c *Clock) Ticks() uint64 { return c.ticks }

// Time returns the simulated time elapsed since the clock was created.
func (c *Clock) Time() time.Duration { return time.Duration(c.timePs / 1000) }

// Period returns the clock period.
func (c *Clock) Period() time.Duration { return time.Duration(c.periodPs / 1000) }

// Err returns the termination error, if any.
func (c *Clock) Err() error { return c.err }

// Device returns the clocked device.
func (c *Clock) Device() Device { return c.dev }

func (c *Clock) AddLogContext(z *log.EntryZ) {
	z.Uint64("tick", c.ticks)
}
