// Package emitter owns the virtual gamepad and mouse devices backed by uinput.
package emitter

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bendahl/uinput"
	joy "github.com/rdnt/uinput"

	"github.com/anton2026gamca/ShibaGpioGamepad/internal/config"
)

const (
	GamepadName = "GPIO-Virtual-Gamepad"
	MouseName   = "GPIO-Virtual-Mouse"
)

// Pad is the gamepad device surface the emitter writes to.
type Pad interface {
	SetAxis(axis uint16, value int32) error
	SetButton(button uint16, on bool) error
	Close() error
}

// Pointer is the mouse device surface the emitter writes to.
type Pointer interface {
	Move(x, y int32) error
	LeftPress() error
	LeftRelease() error
	RightPress() error
	RightRelease() error
	MiddlePress() error
	MiddleRelease() error
	Close() error
}

// Device creation seams, replaceable in tests.
var (
	createPad = func(devPath string) (Pad, error) {
		axes := make([]joy.Axis, 0, len(config.PadAxes()))
		for _, id := range config.PadAxes() {
			axes = append(axes, joy.Axis{ID: id, Min: -config.AxisMax, Max: config.AxisMax})
		}
		keys := config.PadKeys()
		buttons := make([]joy.Button, 0, len(keys))
		for _, id := range keys {
			buttons = append(buttons, joy.Button{ID: id})
		}
		return joy.CreateJoystick(devPath, []byte(GamepadName), axes, buttons)
	}
	createPointer = func(devPath string) (Pointer, error) {
		return uinput.CreateMouse(devPath, []byte(MouseName))
	}
)

// DeviceWriteError wraps a rejected write to one of the virtual devices.
// Writes can start failing at runtime (permissions revoked, device gone);
// the daemon logs and keeps going rather than die with buttons still wired.
type DeviceWriteError struct {
	Device string
	Err    error
}

func (e *DeviceWriteError) Error() string {
	return fmt.Sprintf("%s write failed: %v", e.Device, e.Err)
}

func (e *DeviceWriteError) Unwrap() error { return e.Err }

// Emitter serializes all writes to the two kernel devices behind one
// handle. The device files do not tolerate interleaved writers.
type Emitter struct {
	mu    sync.Mutex
	pad   Pad
	mouse Pointer
}

// Open creates both virtual devices. Failing to create either is fatal:
// a daemon without devices has nothing to do.
func Open(devPath string) (*Emitter, error) {
	pad, err := createPad(devPath)
	if err != nil {
		return nil, fmt.Errorf("creating virtual gamepad: %w", err)
	}
	mouse, err := createPointer(devPath)
	if err != nil {
		_ = pad.Close()
		return nil, fmt.Errorf("creating virtual mouse: %w", err)
	}
	return &Emitter{pad: pad, mouse: mouse}, nil
}

// Button writes a gamepad key down or up event.
func (e *Emitter) Button(code uint16, pressed bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.pad.SetButton(code, pressed); err != nil {
		return &DeviceWriteError{Device: "gamepad", Err: err}
	}
	return nil
}

// Axis drives an absolute gamepad axis.
func (e *Emitter) Axis(axis uint16, value int32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.pad.SetAxis(axis, value); err != nil {
		return &DeviceWriteError{Device: "gamepad", Err: err}
	}
	return nil
}

// Click presses or releases a mouse button.
func (e *Emitter) Click(code uint16, pressed bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	switch code {
	case config.BtnMouseLeft:
		if pressed {
			err = e.mouse.LeftPress()
		} else {
			err = e.mouse.LeftRelease()
		}
	case config.BtnMouseRight:
		if pressed {
			err = e.mouse.RightPress()
		} else {
			err = e.mouse.RightRelease()
		}
	case config.BtnMouseMiddle:
		if pressed {
			err = e.mouse.MiddlePress()
		} else {
			err = e.mouse.MiddleRelease()
		}
	default:
		return fmt.Errorf("unknown mouse button code %#x", code)
	}
	if err != nil {
		return &DeviceWriteError{Device: "mouse", Err: err}
	}
	return nil
}

// MoveMouse writes one relative motion event.
func (e *Emitter) MoveMouse(dx, dy int32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mouse.Move(dx, dy); err != nil {
		return &DeviceWriteError{Device: "mouse", Err: err}
	}
	return nil
}

// Close destroys both virtual devices.
func (e *Emitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return errors.Join(e.pad.Close(), e.mouse.Close())
}
