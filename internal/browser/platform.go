package browser

import (
	"os"
	"path/filepath"
	"runtime"

	"go-shopscraper/internal/config"
)

// Platform decides where the browser executable comes from.
type Platform int

const (
	PlatformUnix Platform = iota
	PlatformWindows
	PlatformRaspberryPi
)

func (p Platform) String() string {
	switch p {
	case PlatformWindows:
		return "Windows"
	case PlatformRaspberryPi:
		return "RaspberryPi"
	default:
		return "Unix"
	}
}

// DetectPlatform maps an OS name and hostname to a Platform. systemHost is the
// hostname of the board that ships its own browser.
func DetectPlatform(goos, hostname, systemHost string) Platform {
	if goos == "windows" {
		return PlatformWindows
	}
	if systemHost != "" && hostname == systemHost {
		return PlatformRaspberryPi
	}
	return PlatformUnix
}

// CurrentPlatform detects the platform of the running process.
func CurrentPlatform(systemHost string) Platform {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = ""
	}
	return DetectPlatform(runtime.GOOS, hostname, systemHost)
}

type execPathStrategy func(cfg config.BrowserConfig, workDir string) string

var execPathStrategies = map[Platform]execPathStrategy{
	PlatformWindows: func(cfg config.BrowserConfig, workDir string) string {
		return filepath.Join(workDir, cfg.DriverDir, cfg.DriverName+".exe")
	},
	// An empty path lets chromedp find the installed browser.
	PlatformRaspberryPi: func(config.BrowserConfig, string) string {
		return ""
	},
	PlatformUnix: func(cfg config.BrowserConfig, workDir string) string {
		return filepath.Join(workDir, cfg.DriverDir, cfg.DriverName)
	},
}

// ExecPath returns the browser executable for a platform, or "" when the
// system-installed browser should be used.
func ExecPath(p Platform, cfg config.BrowserConfig, workDir string) string {
	strategy, ok := execPathStrategies[p]
	if !ok {
		strategy = execPathStrategies[PlatformUnix]
	}
	return strategy(cfg, workDir)
}
