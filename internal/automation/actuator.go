package automation

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-vgo/robotgo"
)

// specialKeys are the key names robotgo accepts for KeyTap beyond single
// characters.
var specialKeys = map[string]bool{
	"enter": true, "tab": true, "space": true, "backspace": true, "delete": true,
	"escape": true, "up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "page_up": true, "page_down": true,
	"f1": true, "f2": true, "f3": true, "f4": true, "f5": true,
	"f6": true, "f7": true, "f8": true, "f9": true, "f10": true,
	"f11": true, "f12": true, "return": true,
}

// RobotActuator drives the real desktop through robotgo. With SlowMode the
// pointer moves smoothly and pauses briefly around clicks, which records
// better.
type RobotActuator struct {
	SlowMode bool
}

// NewRobotActuator returns an actuator against the live desktop.
func NewRobotActuator(slowMode bool) *RobotActuator {
	return &RobotActuator{SlowMode: slowMode}
}

// MinimizeAll clears the desktop before launching an application.
func (a *RobotActuator) MinimizeAll() error {
	return minimizeAllWindows()
}

// Launch opens the named application and brings it to the foreground.
func (a *RobotActuator) Launch(app string) error {
	return launchApplication(app)
}

func (a *RobotActuator) Click(x, y int) error {
	a.moveTo(x, y)
	robotgo.Click("left", false)
	a.pause()
	return nil
}

func (a *RobotActuator) DoubleClick(x, y int) error {
	a.moveTo(x, y)
	robotgo.Click("left", true)
	a.pause()
	return nil
}

func (a *RobotActuator) RightClick(x, y int) error {
	a.moveTo(x, y)
	robotgo.Click("right", false)
	a.pause()
	return nil
}

// PasteText submits text through the clipboard and a paste chord. Chosen over
// keystroke simulation so arbitrary and non-ASCII text arrives intact.
func (a *RobotActuator) PasteText(text string) error {
	if err := robotgo.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	time.Sleep(100 * time.Millisecond)
	return robotgo.KeyTap("v", pasteModifier())
}

func (a *RobotActuator) PressKey(name string) error {
	key := strings.ToLower(name)
	switch {
	case len(key) == 1:
		return robotgo.KeyTap(key)
	case specialKeys[key]:
		return robotgo.KeyTap(key)
	default:
		// Not a key robotgo knows; type it as literal text.
		robotgo.TypeStr(name)
		return nil
	}
}

// PressCombination dispatches one chorded combination; the last name is the
// key, the rest are modifiers.
func (a *RobotActuator) PressCombination(keys ...string) error {
	if len(keys) == 0 {
		return fmt.Errorf("empty key combination")
	}
	key := keys[len(keys)-1]
	mods := make([]interface{}, 0, len(keys)-1)
	for _, mod := range keys[:len(keys)-1] {
		mods = append(mods, normalizeModifier(mod))
	}
	return robotgo.KeyTap(key, mods...)
}

func (a *RobotActuator) Scroll(amount int) error {
	robotgo.Scroll(0, amount)
	return nil
}

func (a *RobotActuator) Sleep(seconds int) error {
	time.Sleep(time.Duration(seconds) * time.Second)
	return nil
}

func (a *RobotActuator) moveTo(x, y int) {
	if a.SlowMode {
		robotgo.MoveSmooth(x, y, 0.8, 0.8)
		time.Sleep(200 * time.Millisecond)
		return
	}
	robotgo.Move(x, y)
}

func (a *RobotActuator) pause() {
	if a.SlowMode {
		time.Sleep(300 * time.Millisecond)
	}
}

// normalizeModifier maps common modifier aliases to robotgo's names.
func normalizeModifier(mod string) string {
	switch strings.ToLower(mod) {
	case "command", "cmd", "super", "win":
		return "command"
	case "control", "ctrl":
		return "control"
	case "alt", "option":
		return "alt"
	case "shift":
		return "shift"
	default:
		return mod
	}
}
