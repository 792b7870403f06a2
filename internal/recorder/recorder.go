// Package recorder captures a screen video bracketing one execution run,
// driving ffmpeg with the capture device of the current platform.
package recorder

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"deskpilot/pkg/utils"

	"github.com/go-vgo/robotgo"
)

// Screen records the primary display to an mp4 file. One session at a time;
// Start while a session is active is an error.
type Screen struct {
	mu    sync.Mutex
	cmd   *exec.Cmd
	stdin io.WriteCloser
	path  string
	log   *slog.Logger
}

// New returns a Screen writing recordings under the video directory.
func New(log *slog.Logger) *Screen {
	if log == nil {
		log = slog.Default()
	}
	return &Screen{log: log}
}

// Start launches ffmpeg and returns the path of the file being written. The
// name becomes the file stem, suffixed with a timestamp so reruns never
// overwrite earlier recordings.
func (s *Screen) Start(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return "", fmt.Errorf("recording already in progress: %s", s.path)
	}

	dir := utils.GetVideoDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create video dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.mp4", name, time.Now().Format("20060102_150405")))

	cmd := exec.Command("ffmpeg", captureArgs(path)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", fmt.Errorf("start recording: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start ffmpeg: %w", err)
	}

	s.cmd = cmd
	s.stdin = stdin
	s.path = path
	s.log.Info("recording started", "path", path)
	return path, nil
}

// Stop ends the session gracefully and returns the finished file path. ffmpeg
// gets a quit keystroke first so it can write the trailer; a process that does
// not exit within five seconds is killed.
func (s *Screen) Stop() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil {
		return "", fmt.Errorf("no recording in progress")
	}

	path := s.path
	_, _ = io.WriteString(s.stdin, "q")
	_ = s.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		_ = s.cmd.Process.Kill()
		<-done
	}

	s.cmd = nil
	s.stdin = nil
	s.path = ""

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("recording not written: %w", err)
	}
	s.log.Info("recording saved", "path", path)
	return path, nil
}

// IsActive reports whether a session is currently running.
func (s *Screen) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd != nil
}

// captureArgs builds the ffmpeg invocation for the platform's screen capture
// device, recording the full primary display at 30 fps.
func captureArgs(path string) []string {
	width, height := robotgo.GetScreenSize()

	var input []string
	switch runtime.GOOS {
	case "darwin":
		// Device "1:none": primary screen, no audio.
		input = []string{"-f", "avfoundation", "-capture_cursor", "1", "-i", "1:none"}
	case "windows":
		input = []string{"-f", "gdigrab", "-i", "desktop"}
	default:
		display := os.Getenv("DISPLAY")
		if display == "" {
			display = ":0"
		}
		input = []string{
			"-f", "x11grab",
			"-video_size", fmt.Sprintf("%dx%d", width, height),
			"-i", display,
		}
	}

	args := []string{"-y", "-framerate", "30"}
	args = append(args, input...)
	args = append(args,
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-pix_fmt", "yuv420p",
		path,
	)
	return args
}
