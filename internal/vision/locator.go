// Package vision resolves on-screen element descriptions to coordinates by
// showing the model a screenshot and asking where the element is.
package vision

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"log/slog"

	"github.com/go-vgo/robotgo"

	"deskpilot/internal/ai"
	"deskpilot/internal/automation"
)

// Locator finds UI elements through the vision model. It satisfies
// automation.Locator.
type Locator struct {
	client *ai.Client
	log    *slog.Logger
}

// New returns a Locator speaking through client.
func New(client *ai.Client, log *slog.Logger) *Locator {
	if log == nil {
		log = slog.Default()
	}
	return &Locator{client: client, log: log}
}

// locateReply is the JSON shape the locate prompt asks for.
type locateReply struct {
	Found bool `json:"found"`
	X     int  `json:"x"`
	Y     int  `json:"y"`
}

// Locate screenshots the primary display and asks the model for the center of
// the described element. A clean "not found" answer is not an error; the
// caller inspects Location.Found.
func (l *Locator) Locate(target, hint string) (automation.Location, error) {
	imageB64, width, height, err := screenshot()
	if err != nil {
		return automation.Location{}, err
	}

	reply, err := l.client.CompleteVision(ai.LocatePrompt(target, hint, width, height), imageB64)
	if err != nil {
		return automation.Location{}, fmt.Errorf("locate '%s': %w", target, err)
	}

	jsonStr := ai.ExtractJSON(reply)
	if jsonStr == "" {
		return automation.Location{}, fmt.Errorf("locate '%s': no JSON in model reply", target)
	}

	var parsed locateReply
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return automation.Location{}, fmt.Errorf("locate '%s': %w", target, err)
	}

	if !parsed.Found {
		l.log.Debug("element not found on screen", "target", target)
		return automation.Location{Found: false}, nil
	}
	if parsed.X < 0 || parsed.Y < 0 || parsed.X >= width || parsed.Y >= height {
		return automation.Location{}, fmt.Errorf("locate '%s': coordinates (%d, %d) outside %dx%d screen",
			target, parsed.X, parsed.Y, width, height)
	}

	l.log.Debug("element located", "target", target, "x", parsed.X, "y", parsed.Y)
	return automation.Location{Found: true, X: parsed.X, Y: parsed.Y}, nil
}

// screenshot captures the primary display as base64-encoded PNG.
func screenshot() (string, int, int, error) {
	img, err := robotgo.CaptureImg()
	if err != nil {
		return "", 0, 0, fmt.Errorf("capture screen: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", 0, 0, fmt.Errorf("encode screenshot: %w", err)
	}

	bounds := img.Bounds()
	return base64.StdEncoding.EncodeToString(buf.Bytes()), bounds.Dx(), bounds.Dy(), nil
}
