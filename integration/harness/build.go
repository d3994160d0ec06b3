package harness

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

// BinEnv names a prebuilt parcount binary to use instead of building one.
const BinEnv = "PARCOUNT_TEST_BIN"

const modulePath = "parcount"

var (
	rootOnce sync.Once
	root     string
	rootErr  error

	binOnce sync.Once
	bin     string
	binErr  error
)

// RepoRoot returns the directory holding the parcount go.mod.
func RepoRoot(t *testing.T) string {
	t.Helper()
	rootOnce.Do(func() { root, rootErr = findModuleRoot() })
	if rootErr != nil {
		t.Fatalf("resolve repo root: %v", rootErr)
	}
	return root
}

// findModuleRoot walks up from this file until it finds the go.mod that
// declares the parcount module.
func findModuleRoot() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("runtime.Caller failed")
	}
	for dir := filepath.Dir(file); ; dir = filepath.Dir(dir) {
		name, err := moduleName(filepath.Join(dir, "go.mod"))
		if err == nil && name == modulePath {
			return dir, nil
		}
		if parent := filepath.Dir(dir); parent == dir {
			return "", fmt.Errorf("no go.mod for module %s above %s", modulePath, file)
		}
	}
}

func moduleName(goMod string) (string, error) {
	f, err := os.Open(goMod)
	if err != nil {
		return "", err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if name, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "module "); ok {
			return strings.TrimSpace(name), nil
		}
	}
	return "", fmt.Errorf("%s: no module line", goMod)
}

// BuildBinary returns the parcount CLI to run. It honours PARCOUNT_TEST_BIN
// and otherwise builds ./cmd/parcount once per test binary.
func BuildBinary(t *testing.T) string {
	t.Helper()
	if prebuilt := os.Getenv(BinEnv); prebuilt != "" {
		if _, err := os.Stat(prebuilt); err != nil {
			t.Fatalf("%s: %v", BinEnv, err)
		}
		return prebuilt
	}

	dir := RepoRoot(t)
	binOnce.Do(func() { bin, binErr = build(dir) })
	if binErr != nil {
		t.Fatalf("build parcount binary: %v", binErr)
	}
	return bin
}

func build(moduleRoot string) (string, error) {
	outDir, err := os.MkdirTemp("", "parcount-bin-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	name := "parcount"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	out := filepath.Join(outDir, name)

	cmd := exec.Command("go", "build", "-trimpath", "-o", out, "./cmd/parcount")
	cmd.Dir = moduleRoot
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("go build ./cmd/parcount: %w\n%s", err, stderr.String())
	}
	return out, nil
}
