package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoData reports that no trip file exists for a city.
var ErrNoData = errors.New("no data for city")

// FileName maps a city name to its trip file name.
func FileName(city string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(city)), " ", "_") + ".csv"
}

// SearchDirs returns the working directory, the executable's directory and
// the extra directories, in that order.
func SearchDirs(extra []string) []string {
	dirs := make([]string, 0, len(extra)+2)
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dirs = append(dirs, filepath.Dir(exe))
	}
	return append(dirs, extra...)
}

// ResolveCityFile returns the first existing trip file for city in dirs.
func ResolveCityFile(city string, dirs []string) (string, error) {
	name := FileName(city)
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoData, city)
}
