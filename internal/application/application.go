package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "doubleblind"

	// EnvDir overrides the application directory when set
	EnvDir = "DOUBLEBLIND_HOME"
)

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the doubleblind configuration directory path.
// Linux: ~/.config/doubleblind (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\doubleblind (via os.UserCacheDir)
// DOUBLEBLIND_HOME takes precedence on every platform.
func GetApplicationDirectory() (string, error) {
	once.Do(lazyLoad)

	if errDir != nil {
		return "", errDir
	}

	return appDir, errDir
}

func lazyLoad() {
	appDir, errDir = resolve(runtime.GOOS, os.Getenv(EnvDir))
}

func resolve(goos, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	var (
		baseDir string
		err     error
	)

	switch goos {
	case "windows":
		// Windows: use AppData\Local (via UserCacheDir)
		baseDir, err = os.UserCacheDir()
	default:
		// Linux/others: use ~/.config (via UserConfigDir)
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	return filepath.Join(baseDir, AppName), nil
}
