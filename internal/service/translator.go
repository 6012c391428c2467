// Package service contains the daemon loops translating pin edges into
// virtual input events.
package service

import (
	"context"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/anton2026gamca/ShibaGpioGamepad/internal/config"
	"github.com/anton2026gamca/ShibaGpioGamepad/internal/gpio"
)

// Devices is the emitter surface the translator drives.
type Devices interface {
	Button(code uint16, pressed bool) error
	Axis(axis uint16, value int32) error
	Click(code uint16, pressed bool) error
	MoveMouse(dx, dy int32) error
}

// Translator turns debounced pin edges into virtual input events. Each
// mapped pin is either idle or held: the press edge emits the action's
// down event, the paired release edge its up event. Held mouse directions
// form a vector that produces one relative move per tick.
type Translator struct {
	dev      Devices
	actions  map[int]config.Action
	speed    int
	tick     time.Duration
	hasMouse bool

	held         map[int]bool
	moveX, moveY int
}

func NewTranslator(conf *config.Config, set *config.Settings, dev Devices) *Translator {
	actions := make(map[int]config.Action, len(conf.Mappings))
	for _, m := range conf.Mappings {
		actions[m.Pin] = m.Action
	}
	return &Translator{
		dev:      dev,
		actions:  actions,
		speed:    conf.MouseSpeed,
		tick:     time.Duration(set.MouseTickMs) * time.Millisecond,
		hasMouse: conf.HasMouse(),
		held:     make(map[int]bool, len(actions)),
	}
}

// Run consumes edges until the context is cancelled or the channel
// closes. Edges and mouse ticks are handled on this single goroutine, so
// there is exactly one writer on the devices and per-pin ordering holds.
func (t *Translator) Run(ctx context.Context, events <-chan gpio.Event) {
	var tickC <-chan time.Time
	if t.hasMouse {
		ticker := time.NewTicker(t.tick)
		defer ticker.Stop()
		tickC = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			t.handleEdge(ev)
		case <-tickC:
			t.mouseTick()
		}
	}
}

func (t *Translator) handleEdge(ev gpio.Event) {
	action, ok := t.actions[ev.Pin]
	if !ok {
		log.Debugf("edge on unmapped GPIO %d ignored", ev.Pin)
		return
	}
	pressed := ev.Edge == gpio.Pressed
	if t.held[ev.Pin] == pressed {
		return
	}
	t.held[ev.Pin] = pressed

	var err error
	switch action.Class {
	case config.GamepadButton:
		err = t.dev.Button(action.Code, pressed)
	case config.DirectionalAxis:
		if action.Code != 0 {
			// Dpad directions are key events, not a hat axis.
			err = t.dev.Button(action.Code, pressed)
		} else {
			var value int32
			if pressed {
				value = int32(action.Dir) * config.AxisMax
			}
			err = t.dev.Axis(action.Axis, value)
		}
	case config.MouseClick:
		err = t.dev.Click(action.Code, pressed)
	case config.MouseMove:
		t.recomputeVector()
	}

	if err != nil {
		log.WithError(err).Errorf("GPIO %d %s: emitting %s failed", ev.Pin, ev.Edge, action.Name)
		return
	}
	log.Debugf("GPIO %d %s -> %s", ev.Pin, ev.Edge, action.Name)
}

// recomputeVector rebuilds the mouse direction vector from the held
// mouse-move actions, so releasing one direction never cancels another.
func (t *Translator) recomputeVector() {
	x, y := 0, 0
	for pin, held := range t.held {
		if !held {
			continue
		}
		a := t.actions[pin]
		if a.Class != config.MouseMove {
			continue
		}
		x += a.DX
		y += a.DY
	}
	t.moveX = clampUnit(x)
	t.moveY = clampUnit(y)
}

func clampUnit(v int) int {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// mouseTick emits one relative move while any mouse direction is held.
// Diagonals are normalized so each tick moves the pointer by the
// configured speed regardless of direction.
func (t *Translator) mouseTick() {
	x, y := t.moveX, t.moveY
	if x == 0 && y == 0 {
		return
	}
	mag := math.Sqrt(float64(x*x + y*y))
	dx := int32(math.Round(float64(x) / mag * float64(t.speed)))
	dy := int32(math.Round(float64(y) / mag * float64(t.speed)))
	if err := t.dev.MoveMouse(dx, dy); err != nil {
		log.WithError(err).Error("emitting mouse motion failed")
	}
}
