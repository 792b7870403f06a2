// Package automation drives one execution run: it validates and maps a raw
// plan, then dispatches the stored steps one at a time against the locator and
// actuator collaborators while recording per-step state.
package automation

// Location is the outcome of resolving an element description to screen
// coordinates.
type Location struct {
	Found bool
	X     int
	Y     int
}

// Locator resolves a textual element description to screen coordinates. The
// hint is a short natural-language phrase narrowing where to look.
type Locator interface {
	Locate(target, hint string) (Location, error)
}

// Actuator performs real pointer, keyboard and application operations against
// the desktop. One shared screen and input surface: calls are never made
// concurrently.
type Actuator interface {
	MinimizeAll() error
	Launch(app string) error
	Click(x, y int) error
	DoubleClick(x, y int) error
	RightClick(x, y int) error
	PasteText(text string) error
	PressKey(name string) error
	PressCombination(keys ...string) error
	Scroll(amount int) error
	Sleep(seconds int) error
}

// Recorder captures a video artifact bracketing one run. A single session is
// active at a time.
type Recorder interface {
	Start(name string) (string, error)
	Stop() (string, error)
	IsActive() bool
}
