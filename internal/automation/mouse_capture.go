package automation

import (
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"
	hook "github.com/robotn/gohook"
)

// CaptureClickPosition waits for the next mouse click and returns its screen
// coordinates. Used by the GUI to fill exact targets into a plan. A timeout
// of 0 waits indefinitely.
func CaptureClickPosition(timeout time.Duration) (int, int, error) {
	type point struct{ X, Y int }

	clickCh := make(chan point)
	stopCh := make(chan struct{}, 1)

	go func() {
		events := hook.Start()
		defer hook.End()

		for {
			select {
			case ev := <-events:
				if ev.Kind == hook.MouseDown {
					x, y := robotgo.Location()
					clickCh <- point{X: x, Y: y}
					return
				}
			case <-stopCh:
				return
			}
		}
	}()

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timeoutCh = time.After(timeout)
	}

	select {
	case p := <-clickCh:
		return p.X, p.Y, nil
	case <-timeoutCh:
		stopCh <- struct{}{}
		return 0, 0, fmt.Errorf("no click within %s", timeout)
	}
}
