package utils

import "runtime"

// CurrentOS names the host platform the way plan prompts describe it.
func CurrentOS() string {
	switch runtime.GOOS {
	case "darwin":
		return "macos"
	case "windows":
		return "windows"
	case "linux":
		return "linux"
	}
	return "unknown"
}
