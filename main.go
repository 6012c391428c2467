// Command gpio-gamepad turns buttons wired to Raspberry Pi GPIO pins into
// a virtual gamepad and mouse.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anton2026gamca/ShibaGpioGamepad/internal/config"
	"github.com/anton2026gamca/ShibaGpioGamepad/internal/service"
)

var Version = "dev"

func main() {

	var rootCmd = &cobra.Command{
		Use:   "gpio-gamepad",
		Short: "GPIO Gamepad is a daemon that maps GPIO buttons to a virtual gamepad and mouse on a Raspberry Pi.",
		Long:  "GPIO Gamepad is a daemon that maps buttons wired between GPIO pins and ground to a virtual gamepad and mouse. It reads the mapping file written by the installer at startup, debounces button edges and injects the corresponding input events through uinput. It is meant to be autostarted and runs unattended until the session ends.",
	}

	configPtr := rootCmd.PersistentFlags().StringP("config", "f", "", "Path to the button mapping file")
	checkPtr := rootCmd.PersistentFlags().BoolP("check", "c", false, "Validate the mapping file and exit")
	debugPtr := rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	versionPtr := rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")

	rootCmd.Run = func(_ *cobra.Command, _ []string) {

		if *versionPtr {
			fmt.Printf("GPIO Gamepad version %s\n", Version)
			return
		}

		if *debugPtr {
			log.SetLevel(log.DebugLevel)
		}

		path := *configPtr
		if path == "" {
			path = config.DefaultMappingPath()
		}

		conf, err := config.Load(path)
		if err != nil {
			var malformed *config.MalformedConfigError
			if errors.As(err, &malformed) {
				for _, p := range malformed.Problems {
					log.Errorf("%s: %s", path, p)
				}
			}
			log.Fatalf("Error loading button mappings: %s", err)
			return
		}

		if *checkPtr {
			fmt.Printf("%s: %d mappings OK\n", path, len(conf.Mappings))
			for _, m := range conf.Mappings {
				fmt.Printf("  GPIO %d -> %s\n", m.Pin, m.Action.Name)
			}
			if conf.HasMouse() {
				fmt.Printf("  mouse speed %d\n", conf.MouseSpeed)
			}
			return
		}

		set, err := config.LoadSettings()
		if err != nil {
			log.Fatalf("Error loading settings: %s", err)
			return
		}
		setupLogFile(set.LogFile)

		if err := service.Run(conf, set); err != nil {
			log.Fatalf("Error running daemon: %s", err)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %s", err)
	}
}

// setupLogFile mirrors logs to the settings log file so failures stay
// observable when the daemon runs with no terminal attached.
func setupLogFile(path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.WithError(err).Warn("Log directory not available, logging to stderr only")
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		log.WithError(err).Warn("Log file not available, logging to stderr only")
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
}
