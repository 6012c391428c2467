package config

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/anton2026gamca/ShibaGpioGamepad/internal/hostfs"
)

// Settings are the daemon's own tunables. They are operator-side and
// separate from the mapping file the installer owns.
type Settings struct {
	// Backend selects how pins are watched: "auto", "rpio" or "periph".
	Backend string `yaml:"backend"`
	// DebounceMs is how long a level must hold before an edge is honored.
	DebounceMs int `yaml:"debounce_ms"`
	// PollMs is the sample period of the polled backend.
	PollMs int `yaml:"poll_ms"`
	// MouseTickMs is the period of the mouse motion tick.
	MouseTickMs int    `yaml:"mouse_tick_ms"`
	UinputPath  string `yaml:"uinput_path"`
	LogFile     string `yaml:"log_file,omitempty"`
}

func defaultSettings() *Settings {
	home, _ := os.UserHomeDir()
	return &Settings{
		Backend:     "auto",
		DebounceMs:  20,
		PollMs:      5,
		MouseTickMs: 10,
		UinputPath:  "/dev/uinput",
		LogFile:     filepath.Join(home, ".local", "share", "gpio-gamepad", "daemon.log"),
	}
}

func settingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(home, ".config", "gpio-gamepad")
	_ = hostfs.FS.MkdirAll(path, 0755)
	return filepath.Join(path, "settings.yaml"), nil
}

// SaveSettings writes the settings file.
func SaveSettings(s *Settings) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return hostfs.FS.WriteFile(path, data, 0644)
}

// LoadSettings reads the settings file, creating it with defaults on
// first run. Zero or negative durations fall back to defaults so a
// hand-edited file cannot stall the loops.
func LoadSettings() (*Settings, error) {
	path, err := settingsPath()
	if err != nil {
		return nil, err
	}

	s := defaultSettings()

	data, err := hostfs.FS.ReadFile(path)
	if err != nil {
		err = SaveSettings(s)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	err = yaml.Unmarshal(data, s)
	if err != nil {
		log.WithError(err).Warnf("Settings file %s is not valid yaml, using defaults", path)
		return defaultSettings(), nil
	}

	def := defaultSettings()
	if s.DebounceMs <= 0 {
		log.Warnf("Invalid debounce_ms %d, using %d", s.DebounceMs, def.DebounceMs)
		s.DebounceMs = def.DebounceMs
	}
	if s.PollMs <= 0 {
		log.Warnf("Invalid poll_ms %d, using %d", s.PollMs, def.PollMs)
		s.PollMs = def.PollMs
	}
	if s.MouseTickMs <= 0 {
		log.Warnf("Invalid mouse_tick_ms %d, using %d", s.MouseTickMs, def.MouseTickMs)
		s.MouseTickMs = def.MouseTickMs
	}
	if s.UinputPath == "" {
		s.UinputPath = def.UinputPath
	}
	if s.Backend == "" {
		s.Backend = def.Backend
	}

	return s, nil
}
