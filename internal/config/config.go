// Package config holds the button mapping configuration written by the
// installer and the daemon's own tunable settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/anton2026gamca/ShibaGpioGamepad/internal/hostfs"
)

const (
	// DefaultMouseSpeed is used when the mapping file carries no
	// MOUSE_SPEED line.
	DefaultMouseSpeed = 5

	MinMouseSpeed = 1
	MaxMouseSpeed = 20

	mouseSpeedPrefix = "MOUSE_SPEED="
)

// Mapping binds one BCM GPIO pin to an action.
type Mapping struct {
	Pin    int
	Action Action
}

// Config is the immutable result of parsing a mapping file. Each pin
// appears at most once; MouseSpeed is always in [MinMouseSpeed, MaxMouseSpeed].
type Config struct {
	Mappings   []Mapping
	MouseSpeed int
}

// HasMouse reports whether any mapping drives the virtual mouse.
func (c *Config) HasMouse() bool {
	for _, m := range c.Mappings {
		if m.Action.IsMouse() {
			return true
		}
	}
	return false
}

// Pins returns the configured pin numbers in file order.
func (c *Config) Pins() []int {
	pins := make([]int, len(c.Mappings))
	for i, m := range c.Mappings {
		pins[i] = m.Pin
	}
	return pins
}

// ActionFor returns the action mapped to a pin.
func (c *Config) ActionFor(pin int) (Action, bool) {
	for _, m := range c.Mappings {
		if m.Pin == pin {
			return m.Action, true
		}
	}
	return Action{}, false
}

// Problem is one invalid line found while parsing a mapping file.
type Problem struct {
	Line int
	Msg  string
}

func (p Problem) String() string {
	return fmt.Sprintf("line %d: %s", p.Line, p.Msg)
}

// MalformedConfigError reports every problem found in a mapping file.
// It is fatal: the daemon never runs with a config that failed validation.
type MalformedConfigError struct {
	Problems []Problem
}

func (e *MalformedConfigError) Error() string {
	if len(e.Problems) == 1 {
		return "malformed config: " + e.Problems[0].String()
	}
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return fmt.Sprintf("malformed config: %d problems: %s", len(e.Problems), strings.Join(msgs, "; "))
}

// Parse validates raw mapping-file contents in a single pass, collecting
// every problem rather than stopping at the first. Records are
// "<pin>,<ACTION>" lines; "MOUSE_SPEED=<n>" may appear once. Blank lines
// and lines starting with '#' are ignored. A later record for an already
// mapped pin replaces the earlier one.
func Parse(data []byte) (*Config, error) {
	conf := &Config{MouseSpeed: DefaultMouseSpeed}
	var problems []Problem
	byPin := make(map[int]int) // pin -> index in conf.Mappings
	sawSpeed := false

	for i, raw := range strings.Split(string(data), "\n") {
		lineno := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, mouseSpeedPrefix) {
			if sawSpeed {
				problems = append(problems, Problem{lineno, "duplicate MOUSE_SPEED"})
				continue
			}
			sawSpeed = true
			val := strings.TrimPrefix(line, mouseSpeedPrefix)
			speed, err := strconv.Atoi(val)
			if err != nil {
				problems = append(problems, Problem{lineno, fmt.Sprintf("mouse speed %q is not an integer", val)})
				continue
			}
			if speed < MinMouseSpeed || speed > MaxMouseSpeed {
				problems = append(problems, Problem{lineno, fmt.Sprintf("mouse speed %d out of range [%d,%d]", speed, MinMouseSpeed, MaxMouseSpeed)})
				continue
			}
			conf.MouseSpeed = speed
			continue
		}

		pinStr, actionName, ok := strings.Cut(line, ",")
		if !ok {
			problems = append(problems, Problem{lineno, fmt.Sprintf("expected <pin>,<ACTION>, got %q", line)})
			continue
		}
		pinStr = strings.TrimSpace(pinStr)
		actionName = strings.TrimSpace(actionName)

		pin, err := strconv.Atoi(pinStr)
		if err != nil || pin < 0 {
			problems = append(problems, Problem{lineno, fmt.Sprintf("pin %q is not a non-negative integer", pinStr)})
			continue
		}
		action, ok := LookupAction(actionName)
		if !ok {
			problems = append(problems, Problem{lineno, fmt.Sprintf("unknown action %q", actionName)})
			continue
		}

		if idx, dup := byPin[pin]; dup {
			conf.Mappings[idx].Action = action
			continue
		}
		byPin[pin] = len(conf.Mappings)
		conf.Mappings = append(conf.Mappings, Mapping{Pin: pin, Action: action})
	}

	if len(problems) > 0 {
		return nil, &MalformedConfigError{Problems: problems}
	}
	if len(conf.Mappings) == 0 {
		return nil, &MalformedConfigError{Problems: []Problem{{0, "no button mappings configured"}}}
	}
	return conf, nil
}

// Marshal renders a config back to the flat file format. MOUSE_SPEED is
// written only when a mouse action is mapped. Parse(Marshal(c)) yields the
// same pin to action record set.
func Marshal(c *Config) []byte {
	var b strings.Builder
	mappings := make([]Mapping, len(c.Mappings))
	copy(mappings, c.Mappings)
	sort.Slice(mappings, func(i, j int) bool { return mappings[i].Pin < mappings[j].Pin })
	for _, m := range mappings {
		fmt.Fprintf(&b, "%d,%s\n", m.Pin, m.Action.Name)
	}
	if c.HasMouse() {
		fmt.Fprintf(&b, "%s%d\n", mouseSpeedPrefix, c.MouseSpeed)
	}
	return []byte(b.String())
}

// DefaultMappingPath is where the installer writes the mapping file.
func DefaultMappingPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "gpio_gamepad_config.txt"
	}
	return filepath.Join(home, "gpio_gamepad_config.txt")
}

// Load reads and parses the mapping file. A missing file is an error: an
// unconfigured daemon must not start silently inert.
func Load(path string) (*Config, error) {
	data, err := hostfs.FS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping file %s: %w", path, err)
	}
	return Parse(data)
}

// Save writes the mapping file the way the installer does.
func Save(path string, c *Config) error {
	return hostfs.FS.WriteFile(path, Marshal(c), 0644)
}
