package office

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// findBinary resolves the converter executable. Explicit paths are used as
// given; bare names are searched on PATH first, then in the usual
// LibreOffice install locations.
func findBinary(name string) (string, bool) {
	if strings.ContainsRune(name, os.PathSeparator) || strings.Contains(name, "/") {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name, true
		}
		return "", false
	}

	if runtime.GOOS == "windows" && filepath.Ext(name) != ".exe" {
		name += ".exe"
	}

	if p, err := exec.LookPath(name); err == nil {
		return p, true
	}

	for _, dir := range defaultDirs() {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// defaultDirs lists LibreOffice install directories for the current OS,
// most likely first.
func defaultDirs() []string {
	switch runtime.GOOS {
	case "linux":
		dirs := []string{"/usr/bin", "/usr/local/bin", "/snap/bin", "/usr/lib/libreoffice/program"}
		return append(dirs, globDirs("/opt/libreoffice*/program")...)
	case "darwin":
		return []string{"/Applications/LibreOffice.app/Contents/MacOS", "/opt/homebrew/bin", "/usr/local/bin"}
	case "windows":
		pf := os.Getenv("ProgramFiles")
		if pf == "" {
			pf = `C:\Program Files`
		}
		return []string{filepath.Join(pf, "LibreOffice", "program")}
	default:
		return nil
	}
}

// globDirs expands glob patterns to the matching directories.
func globDirs(patterns ...string) []string {
	var dirs []string
	for _, pat := range patterns {
		matches, _ := filepath.Glob(pat)
		dirs = append(dirs, matches...)
	}
	return dirs
}
