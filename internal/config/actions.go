package config

import "sort"

// Class groups actions by the kind of virtual input they drive.
type Class int

const (
	GamepadButton Class = iota
	DirectionalAxis
	MouseMove
	MouseClick
)

// AxisMax is the absolute axis range registered on the virtual gamepad.
const AxisMax = 32767

// Linux input event codes used by the action table.
const (
	absX  uint16 = 0x00
	absY  uint16 = 0x01
	absRX uint16 = 0x03
	absRY uint16 = 0x04

	btnTrigger uint16 = 0x120
	btnThumb   uint16 = 0x121
	btnThumb2  uint16 = 0x122
	btnTop     uint16 = 0x123
	btnTop2    uint16 = 0x124
	btnPinkie  uint16 = 0x125
	btnBase    uint16 = 0x126
	btnBase2   uint16 = 0x127
	btnBase3   uint16 = 0x128
	btnBase4   uint16 = 0x129
	btnBase5   uint16 = 0x12a
	btnBase6   uint16 = 0x12b
	btnDead    uint16 = 0x12f

	btnSouth  uint16 = 0x130
	btnEast   uint16 = 0x131
	btnC      uint16 = 0x132
	btnNorth  uint16 = 0x133
	btnWest   uint16 = 0x134
	btnZ      uint16 = 0x135
	btnTL     uint16 = 0x136
	btnTR     uint16 = 0x137
	btnTL2    uint16 = 0x138
	btnTR2    uint16 = 0x139
	btnSelect uint16 = 0x13a
	btnStart  uint16 = 0x13b
	btnMode   uint16 = 0x13c
	btnThumbL uint16 = 0x13d
	btnThumbR uint16 = 0x13e

	btnDpadUp    uint16 = 0x220
	btnDpadDown  uint16 = 0x221
	btnDpadLeft  uint16 = 0x222
	btnDpadRight uint16 = 0x223

	// BtnMouseLeft and friends are the click codes carried in Action.Code
	// for MouseClick actions.
	BtnMouseLeft   uint16 = 0x110
	BtnMouseRight  uint16 = 0x111
	BtnMouseMiddle uint16 = 0x112
)

// Action is one entry of the fixed action enumeration. The meaning of the
// code fields depends on Class: Code is an EV_KEY code for buttons, dpad
// directions and clicks; Axis and Dir describe a stick direction; DX/DY
// is the unit movement vector of a mouse direction.
type Action struct {
	Name  string
	Class Class
	Code  uint16
	Axis  uint16
	Dir   int
	DX    int
	DY    int
}

func button(name string, code uint16) Action {
	return Action{Name: name, Class: GamepadButton, Code: code}
}

func dpad(name string, code uint16) Action {
	return Action{Name: name, Class: DirectionalAxis, Code: code}
}

func stick(name string, axis uint16, dir int) Action {
	return Action{Name: name, Class: DirectionalAxis, Axis: axis, Dir: dir}
}

func mouseMove(name string, dx, dy int) Action {
	return Action{Name: name, Class: MouseMove, DX: dx, DY: dy}
}

func mouseClick(name string, code uint16) Action {
	return Action{Name: name, Class: MouseClick, Code: code}
}

var actionList = []Action{
	button("BTN_TRIGGER", btnTrigger),
	button("BTN_THUMB", btnThumb),
	button("BTN_THUMB2", btnThumb2),
	button("BTN_TOP", btnTop),
	button("BTN_TOP2", btnTop2),
	button("BTN_PINKIE", btnPinkie),
	button("BTN_BASE", btnBase),
	button("BTN_BASE2", btnBase2),
	button("BTN_BASE3", btnBase3),
	button("BTN_BASE4", btnBase4),
	button("BTN_BASE5", btnBase5),
	button("BTN_BASE6", btnBase6),
	button("BTN_DEAD", btnDead),
	button("BTN_SOUTH", btnSouth),
	button("BTN_EAST", btnEast),
	button("BTN_C", btnC),
	button("BTN_NORTH", btnNorth),
	button("BTN_WEST", btnWest),
	button("BTN_Z", btnZ),
	button("BTN_TL", btnTL),
	button("BTN_TR", btnTR),
	button("BTN_TL2", btnTL2),
	button("BTN_TR2", btnTR2),
	button("BTN_SELECT", btnSelect),
	button("BTN_START", btnStart),
	button("BTN_MODE", btnMode),
	button("BTN_THUMBL", btnThumbL),
	button("BTN_THUMBR", btnThumbR),
	// Controller-style aliases for the face buttons.
	button("BTN_A", btnSouth),
	button("BTN_B", btnEast),
	button("BTN_X", btnNorth),
	button("BTN_Y", btnWest),

	dpad("DPAD_UP", btnDpadUp),
	dpad("DPAD_DOWN", btnDpadDown),
	dpad("DPAD_LEFT", btnDpadLeft),
	dpad("DPAD_RIGHT", btnDpadRight),
	stick("JOY1_UP", absY, -1),
	stick("JOY1_DOWN", absY, 1),
	stick("JOY1_LEFT", absX, -1),
	stick("JOY1_RIGHT", absX, 1),
	stick("JOY2_UP", absRY, -1),
	stick("JOY2_DOWN", absRY, 1),
	stick("JOY2_LEFT", absRX, -1),
	stick("JOY2_RIGHT", absRX, 1),

	mouseMove("MOUSE_UP", 0, -1),
	mouseMove("MOUSE_DOWN", 0, 1),
	mouseMove("MOUSE_LEFT", -1, 0),
	mouseMove("MOUSE_RIGHT", 1, 0),
	mouseClick("MOUSE_BTN_LEFT", BtnMouseLeft),
	mouseClick("MOUSE_BTN_RIGHT", BtnMouseRight),
	mouseClick("MOUSE_BTN_MIDDLE", BtnMouseMiddle),
}

var actionsByName = func() map[string]Action {
	m := make(map[string]Action, len(actionList))
	for _, a := range actionList {
		m[a.Name] = a
	}
	return m
}()

// LookupAction resolves an action name. Names are case-sensitive uppercase.
func LookupAction(name string) (Action, bool) {
	a, ok := actionsByName[name]
	return a, ok
}

// IsMouse reports whether the action drives the virtual mouse.
func (a Action) IsMouse() bool {
	return a.Class == MouseMove || a.Class == MouseClick
}

// PadKeys returns the sorted set of EV_KEY codes the virtual gamepad must
// register: every button code plus the four dpad codes.
func PadKeys() []uint16 {
	seen := make(map[uint16]bool)
	var keys []uint16
	for _, a := range actionList {
		if a.Class != GamepadButton && !(a.Class == DirectionalAxis && a.Code != 0) {
			continue
		}
		if !seen[a.Code] {
			seen[a.Code] = true
			keys = append(keys, a.Code)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// PadAxes returns the EV_ABS codes registered on the virtual gamepad.
func PadAxes() []uint16 {
	return []uint16{absX, absY, absRX, absRY}
}
