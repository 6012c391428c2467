package gpio

import (
	"fmt"
	"sync"
	"time"

	pio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Hardware seams, replaced in tests.
var (
	hostInit = func() error {
		_, err := host.Init()
		return err
	}
	lookupPin = func(name string) pio.PinIO { return gpioreg.ByName(name) }
)

var hostOnce sync.Once

// periphWatcher waits for character-device edge interrupts, one goroutine
// per claimed pin, and confirms each through the shared debouncer.
type periphWatcher struct {
	events    chan Event
	pins      []int
	lines     []pio.PinIO
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func openPeriph(pins []int, opts Options) (Watcher, []error, error) {
	var initErr error
	hostOnce.Do(func() { initErr = hostInit() })
	if initErr != nil {
		return nil, nil, fmt.Errorf("initializing gpio host drivers: %w", initErr)
	}

	w := &periphWatcher{
		events: make(chan Event, 32),
		done:   make(chan struct{}),
	}
	var pinErrs []error
	for _, pin := range pins {
		line := lookupPin(fmt.Sprintf("GPIO%d", pin))
		if line == nil {
			pinErrs = append(pinErrs, &PinError{Pin: pin, Err: fmt.Errorf("no such line")})
			continue
		}
		if err := line.In(pio.PullUp, pio.BothEdges); err != nil {
			pinErrs = append(pinErrs, &PinError{Pin: pin, Err: err})
			continue
		}
		w.pins = append(w.pins, pin)
		w.lines = append(w.lines, line)
	}
	if len(w.pins) == 0 {
		return nil, pinErrs, fmt.Errorf("no pins could be claimed")
	}

	for i := range w.pins {
		w.wg.Add(1)
		go w.watch(w.pins[i], w.lines[i], opts.Debounce)
	}
	return w, pinErrs, nil
}

// watch blocks on hardware edges. The wait timeout equals the debounce
// window so a pending raw change is re-sampled soon enough to be honored.
func (w *periphWatcher) watch(pin int, line pio.PinIO, debounce time.Duration) {
	defer w.wg.Done()
	deb := newDebouncer(debounce)
	for {
		select {
		case <-w.done:
			return
		default:
		}
		line.WaitForEdge(debounce)
		now := time.Now()
		edge, ok := deb.sample(line.Read() == pio.Low, now)
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

func (w *periphWatcher) Events() <-chan Event { return w.events }

func (w *periphWatcher) Pins() []int { return w.pins }

func (w *periphWatcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		for _, line := range w.lines {
			_ = line.Halt()
		}
		w.wg.Wait()
		close(w.events)
	})
	return nil
}
