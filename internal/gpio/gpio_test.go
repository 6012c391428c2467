package gpio

import (
	"os"
	"testing"
	"time"

	pio "periph.io/x/conn/v3/gpio"

	"github.com/anton2026gamca/ShibaGpioGamepad/internal/hostfs"
)

// fakeHostFS answers Stat from a fixed set of paths.
type fakeHostFS struct {
	present map[string]bool
}

func (f *fakeHostFS) ReadFile(path string) ([]byte, error) { return nil, os.ErrNotExist }
func (f *fakeHostFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return nil
}
func (f *fakeHostFS) MkdirAll(path string, perm os.FileMode) error { return nil }
func (f *fakeHostFS) Stat(path string) (os.FileInfo, error) {
	if f.present[path] {
		return nil, nil
	}
	return nil, os.ErrNotExist
}

func withFakeHostFS(t *testing.T, fake *fakeHostFS) {
	t.Helper()
	old := hostfs.FS
	hostfs.FS = fake
	t.Cleanup(func() { hostfs.FS = old })
}

func TestOpenAutoPicksRPIOWhenGpiomemPresent(t *testing.T) {
	withFakeHostFS(t, &fakeHostFS{present: map[string]bool{"/dev/gpiomem": true}})
	withFakeRPIO(t, &fakeLevels{pressed: map[int]bool{}}, nil)

	w, pinErrs, err := Open([]int{17}, Options{
		Backend:  "auto",
		Debounce: 5 * time.Millisecond,
		Poll:     time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if len(pinErrs) != 0 {
		t.Fatalf("unexpected pin errors: %v", pinErrs)
	}
	defer w.Close()

	if _, ok := w.(*rpioWatcher); !ok {
		t.Fatalf("expected rpio watcher, got %T", w)
	}
}

func TestOpenAutoPicksPeriphWithoutGpiomem(t *testing.T) {
	withFakeHostFS(t, &fakeHostFS{present: map[string]bool{}})
	pin := newFakePin("GPIO17", 17)
	withFakePeriph(t, map[string]pio.PinIO{"GPIO17": pin})

	// Empty backend means auto as well.
	w, pinErrs, err := Open([]int{17}, Options{
		Debounce: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if len(pinErrs) != 0 {
		t.Fatalf("unexpected pin errors: %v", pinErrs)
	}
	defer w.Close()

	if _, ok := w.(*periphWatcher); !ok {
		t.Fatalf("expected periph watcher, got %T", w)
	}
}
