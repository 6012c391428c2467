package gpio

import "time"

// debouncer filters contact bounce on one pin. A raw level change is
// reported as an edge only once it has held for the full hold window, so
// a single physical press never yields more than one press edge.
type debouncer struct {
	hold    time.Duration
	pressed bool      // debounced state, true = pressed
	raw     bool      // last raw sample
	since   time.Time // when the raw level last changed
}

func newDebouncer(hold time.Duration) *debouncer {
	return &debouncer{hold: hold}
}

// sample feeds one raw reading taken at now and reports the debounced
// edge, if this sample confirmed one.
func (d *debouncer) sample(pressed bool, now time.Time) (Edge, bool) {
	if pressed != d.raw {
		d.raw = pressed
		d.since = now
	}
	if d.raw == d.pressed {
		return 0, false
	}
	if now.Sub(d.since) < d.hold {
		return 0, false
	}
	d.pressed = d.raw
	if d.pressed {
		return Pressed, true
	}
	return Released, true
}
