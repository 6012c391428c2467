// Package gpio claims button pins and reports debounced press and release edges.
package gpio

import (
	"fmt"
	"time"

	"github.com/anton2026gamca/ShibaGpioGamepad/internal/hostfs"
)

// Edge is a debounced logic-level transition on a pin. Buttons are wired
// between pin and ground with the internal pull-up enabled, so a falling
// level is a press.
type Edge int

const (
	Pressed Edge = iota
	Released
)

func (e Edge) String() string {
	if e == Pressed {
		return "pressed"
	}
	return "released"
}

// Event is one debounced edge. Events for the same pin are always
// delivered in the order they occurred.
type Event struct {
	Pin  int
	Edge Edge
	Time time.Time
}

// PinError reports a pin that could not be claimed as an input. It is
// non-fatal: the remaining pins keep working.
type PinError struct {
	Pin int
	Err error
}

func (e *PinError) Error() string { return fmt.Sprintf("GPIO %d unavailable: %v", e.Pin, e.Err) }
func (e *PinError) Unwrap() error { return e.Err }

// Options tunes how pins are watched.
type Options struct {
	// Backend is "auto", "rpio" or "periph".
	Backend string
	// Debounce is how long a raw level must hold before its edge is honored.
	Debounce time.Duration
	// Poll is the sample period of the rpio backend.
	Poll time.Duration
}

// Watcher delivers debounced edges for the pins it claimed.
type Watcher interface {
	Events() <-chan Event
	// Pins returns the pins that were actually claimed.
	Pins() []int
	Close() error
}

const gpiomemPath = "/dev/gpiomem"

// Open claims every pin it can and starts the watch loop. Pins that fail
// to claim are returned as PinError values; only all pins failing (or the
// backend itself being unusable) is an error.
func Open(pins []int, opts Options) (Watcher, []error, error) {
	backend := opts.Backend
	if backend == "" || backend == "auto" {
		if hostfs.Exists(gpiomemPath) {
			backend = "rpio"
		} else {
			backend = "periph"
		}
	}

	switch backend {
	case "rpio":
		return openRPIO(pins, opts)
	case "periph":
		return openPeriph(pins, opts)
	default:
		return nil, nil, fmt.Errorf("unknown gpio backend %q", backend)
	}
}
