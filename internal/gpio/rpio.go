package gpio

import (
	"fmt"
	"sync"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
)

// Highest BCM pin exposed on the 40-pin header.
const maxHeaderPin = 27

// Hardware seams, replaced in tests so the poll loop runs without a Pi.
var (
	rpioOpen  = rpio.Open
	rpioClose = rpio.Close
	rpioClaim = func(pin int) error {
		p := rpio.Pin(pin)
		p.Input()
		p.PullUp()
		return nil
	}
	// rpioRead returns true while the pin reads low, i.e. pressed.
	rpioRead = func(pin int) bool { return rpio.Pin(pin).Read() == rpio.Low }
)

// rpioWatcher samples every claimed pin on a fixed tick through the
// memory-mapped gpio registers.
type rpioWatcher struct {
	events    chan Event
	pins      []int
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

func openRPIO(pins []int, opts Options) (Watcher, []error, error) {
	if err := rpioOpen(); err != nil {
		return nil, nil, fmt.Errorf("opening gpio memory map: %w", err)
	}

	var claimed []int
	var pinErrs []error
	for _, pin := range pins {
		if pin > maxHeaderPin {
			pinErrs = append(pinErrs, &PinError{Pin: pin, Err: fmt.Errorf("no such pin on this header")})
			continue
		}
		if err := rpioClaim(pin); err != nil {
			pinErrs = append(pinErrs, &PinError{Pin: pin, Err: err})
			continue
		}
		claimed = append(claimed, pin)
	}
	if len(claimed) == 0 {
		_ = rpioClose()
		return nil, pinErrs, fmt.Errorf("no pins could be claimed")
	}

	w := &rpioWatcher{
		events: make(chan Event, 32),
		pins:   claimed,
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.poll(opts.Debounce, opts.Poll)
	return w, pinErrs, nil
}

func (w *rpioWatcher) poll(debounce, period time.Duration) {
	defer w.wg.Done()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	state := make(map[int]*debouncer, len(w.pins))
	for _, pin := range w.pins {
		state[pin] = newDebouncer(debounce)
	}

	for {
		select {
		case <-w.done:
			return
		case now := <-ticker.C:
			for _, pin := range w.pins {
				edge, ok := state[pin].sample(rpioRead(pin), now)
				if !ok {
					continue
				}
				select {
				case w.events <- Event{Pin: pin, Edge: edge, Time: now}:
				case <-w.done:
					return
				}
			}
		}
	}
}

func (w *rpioWatcher) Events() <-chan Event { return w.events }

func (w *rpioWatcher) Pins() []int { return w.pins }

func (w *rpioWatcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
		close(w.events)
		w.closeErr = rpioClose()
	})
	return w.closeErr
}
