package emitter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/anton2026gamca/ShibaGpioGamepad/internal/config"
)

type padCall struct {
	kind  string // "button" or "axis"
	code  uint16
	on    bool
	value int32
}

type fakePad struct {
	calls  []padCall
	fail   error
	closed bool
}

func (f *fakePad) SetButton(button uint16, on bool) error {
	if f.fail != nil {
		return f.fail
	}
	f.calls = append(f.calls, padCall{kind: "button", code: button, on: on})
	return nil
}
func (f *fakePad) SetAxis(axis uint16, value int32) error {
	if f.fail != nil {
		return f.fail
	}
	f.calls = append(f.calls, padCall{kind: "axis", code: axis, value: value})
	return nil
}
func (f *fakePad) Close() error {
	f.closed = true
	return nil
}

type fakePointer struct {
	presses []string
	moves   [][2]int32
	fail    error
	closed  bool
}

func (f *fakePointer) record(name string) error {
	if f.fail != nil {
		return f.fail
	}
	f.presses = append(f.presses, name)
	return nil
}
func (f *fakePointer) Move(x, y int32) error {
	if f.fail != nil {
		return f.fail
	}
	f.moves = append(f.moves, [2]int32{x, y})
	return nil
}
func (f *fakePointer) LeftPress() error     { return f.record("left down") }
func (f *fakePointer) LeftRelease() error   { return f.record("left up") }
func (f *fakePointer) RightPress() error    { return f.record("right down") }
func (f *fakePointer) RightRelease() error  { return f.record("right up") }
func (f *fakePointer) MiddlePress() error   { return f.record("middle down") }
func (f *fakePointer) MiddleRelease() error { return f.record("middle up") }
func (f *fakePointer) Close() error {
	f.closed = true
	return nil
}

func openFake(t *testing.T) (*Emitter, *fakePad, *fakePointer) {
	t.Helper()
	pad := &fakePad{}
	pointer := &fakePointer{}
	oldPad, oldPointer := createPad, createPointer
	createPad = func(string) (Pad, error) { return pad, nil }
	createPointer = func(string) (Pointer, error) { return pointer, nil }
	t.Cleanup(func() { createPad, createPointer = oldPad, oldPointer })

	em, err := Open("/dev/uinput")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	return em, pad, pointer
}

func TestEmitterButtonAndAxis(t *testing.T) {
	em, pad, _ := openFake(t)

	if err := em.Button(0x130, true); err != nil {
		t.Fatalf("Button error: %v", err)
	}
	if err := em.Axis(0x01, -config.AxisMax); err != nil {
		t.Fatalf("Axis error: %v", err)
	}

	if len(pad.calls) != 2 {
		t.Fatalf("expected 2 pad calls, got %d", len(pad.calls))
	}
	if pad.calls[0] != (padCall{kind: "button", code: 0x130, on: true}) {
		t.Fatalf("unexpected button call %+v", pad.calls[0])
	}
	if pad.calls[1] != (padCall{kind: "axis", code: 0x01, value: -config.AxisMax}) {
		t.Fatalf("unexpected axis call %+v", pad.calls[1])
	}
}

func TestEmitterClicks(t *testing.T) {
	em, _, pointer := openFake(t)

	tests := []struct {
		code    uint16
		pressed bool
		want    string
	}{
		{config.BtnMouseLeft, true, "left down"},
		{config.BtnMouseLeft, false, "left up"},
		{config.BtnMouseRight, true, "right down"},
		{config.BtnMouseRight, false, "right up"},
		{config.BtnMouseMiddle, true, "middle down"},
		{config.BtnMouseMiddle, false, "middle up"},
	}
	for _, tt := range tests {
		if err := em.Click(tt.code, tt.pressed); err != nil {
			t.Fatalf("Click(%#x, %v) error: %v", tt.code, tt.pressed, err)
		}
	}
	if len(pointer.presses) != len(tests) {
		t.Fatalf("expected %d clicks got %d", len(tests), len(pointer.presses))
	}
	for i, tt := range tests {
		if pointer.presses[i] != tt.want {
			t.Errorf("click %d: expected %q got %q", i, tt.want, pointer.presses[i])
		}
	}

	if err := em.Click(0x999, true); err == nil {
		t.Fatal("expected error for unknown click code")
	}
}

func TestEmitterMoveMouse(t *testing.T) {
	em, _, pointer := openFake(t)

	if err := em.MoveMouse(5, -5); err != nil {
		t.Fatalf("MoveMouse error: %v", err)
	}
	if len(pointer.moves) != 1 || pointer.moves[0] != [2]int32{5, -5} {
		t.Fatalf("unexpected moves %v", pointer.moves)
	}
}

func TestEmitterWrapsWriteFailures(t *testing.T) {
	em, pad, pointer := openFake(t)
	cause := fmt.Errorf("device gone")
	pad.fail = cause
	pointer.fail = cause

	for _, err := range []error{
		em.Button(0x130, true),
		em.Axis(0x01, 0),
		em.Click(config.BtnMouseLeft, true),
		em.MoveMouse(1, 0),
	} {
		var dw *DeviceWriteError
		if !errors.As(err, &dw) {
			t.Fatalf("expected DeviceWriteError, got %v", err)
		}
		if !errors.Is(err, cause) {
			t.Fatalf("expected wrapped cause, got %v", err)
		}
	}
}

func TestEmitterClose(t *testing.T) {
	em, pad, pointer := openFake(t)
	if err := em.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if !pad.closed || !pointer.closed {
		t.Fatalf("expected both devices closed, got pad=%v mouse=%v", pad.closed, pointer.closed)
	}
}

func TestOpenClosesPadWhenMouseFails(t *testing.T) {
	pad := &fakePad{}
	oldPad, oldPointer := createPad, createPointer
	createPad = func(string) (Pad, error) { return pad, nil }
	createPointer = func(string) (Pointer, error) { return nil, fmt.Errorf("no uinput") }
	defer func() { createPad, createPointer = oldPad, oldPointer }()

	if _, err := Open("/dev/uinput"); err == nil {
		t.Fatal("expected error when mouse creation fails")
	}
	if !pad.closed {
		t.Fatal("expected gamepad closed after mouse creation failed")
	}
}
