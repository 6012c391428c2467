package service

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/anton2026gamca/ShibaGpioGamepad/internal/config"
	"github.com/anton2026gamca/ShibaGpioGamepad/internal/emitter"
	"github.com/anton2026gamca/ShibaGpioGamepad/internal/gpio"
)

// Run starts the daemon and blocks until SIGINT or SIGTERM. The virtual
// devices and pin claims are released before it returns.
func Run(conf *config.Config, set *config.Settings) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return runUntil(ctx, conf, set)
}

func runUntil(ctx context.Context, conf *config.Config, set *config.Settings) error {
	em, err := emitter.Open(set.UinputPath)
	if err != nil {
		return fmt.Errorf("creating virtual devices: %w", err)
	}
	defer func() {
		if err := em.Close(); err != nil {
			log.WithError(err).Warn("closing virtual devices")
		}
	}()
	log.Infof("Virtual gamepad %q and mouse %q created", emitter.GamepadName, emitter.MouseName)

	for _, m := range conf.Mappings {
		log.Infof("Configured GPIO %d -> %s", m.Pin, m.Action.Name)
	}
	if conf.HasMouse() {
		log.Infof("Mouse speed set to: %d", conf.MouseSpeed)
	}

	watcher, pinErrs, err := gpio.Open(conf.Pins(), gpio.Options{
		Backend:  set.Backend,
		Debounce: time.Duration(set.DebounceMs) * time.Millisecond,
		Poll:     time.Duration(set.PollMs) * time.Millisecond,
	})
	for _, perr := range pinErrs {
		var pe *gpio.PinError
		if errors.As(perr, &pe) {
			log.WithError(pe.Err).Errorf("GPIO %d unavailable, mapping disabled", pe.Pin)
		} else {
			log.WithError(perr).Error("Pin claim failed")
		}
	}
	if err != nil {
		return fmt.Errorf("claiming pins: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.WithError(err).Warn("releasing pins")
		}
	}()

	log.Infof("Ready, watching %d pins", len(watcher.Pins()))
	NewTranslator(conf, set, em).Run(ctx, watcher.Events())
	log.Info("Shutting down")
	return nil
}
