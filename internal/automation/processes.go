package automation

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-vgo/robotgo"
)

// ProcessInfo describes one running application, as shown in the GUI picker.
type ProcessInfo struct {
	Name string
	PID  int
}

// pasteModifier is the modifier of the platform paste chord.
func pasteModifier() string {
	if runtime.GOOS == "darwin" {
		return "command"
	}
	return "control"
}

// minimizeAllWindows clears the desktop. On macOS it hides every visible
// process through System Events; elsewhere it sends the show-desktop chord.
func minimizeAllWindows() error {
	switch runtime.GOOS {
	case "darwin":
		script := `tell application "System Events" to set visible of every process whose visible is true and name is not "Finder" to false`
		if out, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
			return fmt.Errorf("minimize all: %v: %s", err, strings.TrimSpace(string(out)))
		}
		return nil
	case "windows":
		return robotgo.KeyTap("d", "command")
	default:
		return robotgo.KeyTap("d", "command")
	}
}

// launchApplication starts the named application and lets the OS bring it to
// the foreground.
func launchApplication(app string) error {
	switch runtime.GOOS {
	case "darwin":
		return launchMac(app)
	case "windows":
		return launchWindows(app)
	default:
		return launchLinux(app)
	}
}

func launchMac(app string) error {
	if err := exec.Command("open", "-a", app).Run(); err == nil {
		return nil
	}
	// Fall back to activation in case the app is already running under a
	// slightly different name.
	script := fmt.Sprintf(`
		try
			tell application "%s" to activate
			return true
		on error
			return false
		end try
	`, app)
	out, err := exec.Command("osascript", "-e", script).Output()
	if err != nil {
		return fmt.Errorf("launch %q: %w", app, err)
	}
	if strings.TrimSpace(string(out)) == "false" {
		return fmt.Errorf("application %q not found", app)
	}
	return nil
}

func launchWindows(app string) error {
	if err := exec.Command("cmd", "/c", "start", "", app).Run(); err != nil {
		return fmt.Errorf("launch %q: %w", app, err)
	}
	return nil
}

func launchLinux(app string) error {
	// Desktop apps usually install a lowercase binary name.
	candidates := []string{app, strings.ToLower(app)}
	var lastErr error
	for _, name := range candidates {
		cmd := exec.Command(name)
		if err := cmd.Start(); err == nil {
			go cmd.Wait()
			return nil
		} else {
			lastErr = err
		}
	}
	return fmt.Errorf("launch %q: %w", app, lastErr)
}

// GetRunningProcesses lists running applications for the GUI picker.
func GetRunningProcesses() ([]ProcessInfo, error) {
	switch runtime.GOOS {
	case "darwin":
		return runningProcessesMac()
	default:
		return runningProcessesRobot()
	}
}

func runningProcessesMac() ([]ProcessInfo, error) {
	script := `tell application "System Events" to get name of every process whose background only is false`
	out, err := exec.Command("osascript", "-e", script).Output()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	var processes []ProcessInfo
	for _, name := range strings.Split(strings.TrimSpace(string(out)), ", ") {
		if name != "" {
			processes = append(processes, ProcessInfo{Name: name})
		}
	}
	return processes, nil
}

func runningProcessesRobot() ([]ProcessInfo, error) {
	procs, err := robotgo.Process()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	seen := make(map[string]bool)
	var processes []ProcessInfo
	for _, p := range procs {
		if p.Name == "" || seen[p.Name] || systemProcesses[strings.ToLower(p.Name)] {
			continue
		}
		seen[p.Name] = true
		processes = append(processes, ProcessInfo{Name: p.Name, PID: int(p.Pid)})
	}
	return processes, nil
}

// systemProcesses are housekeeping processes hidden from the picker.
var systemProcesses = map[string]bool{
	"systemd": true, "kthreadd": true, "dbus-daemon": true,
	"svchost.exe": true, "csrss.exe": true, "wininit.exe": true,
	"services.exe": true, "lsass.exe": true, "winlogon.exe": true,
	"dwm.exe": true, "smss.exe": true, "registry": true,
}
