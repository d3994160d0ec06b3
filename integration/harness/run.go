package harness

import (
	"bytes"
	"os"
	"os/exec"
	"sort"
	"strings"
	"testing"
)

// Result is the outcome of one CLI invocation.
type Result struct {
	Stdout string
	Stderr string
	Code   int
}

// CLI runs the parcount binary against a single workspace. Env entries
// override the process environment.
type CLI struct {
	Bin       string
	Workspace string
	Env       map[string]string
}

// NewCLI builds the binary and returns a runner for a fresh workspace using
// the SQLite backend.
func NewCLI(t *testing.T, workspace string) *CLI {
	t.Helper()
	return &CLI{
		Bin:       BuildBinary(t),
		Workspace: workspace,
		Env: map[string]string{
			"PARCOUNT_STORE":     "sqlite",
			"PARCOUNT_LOG_LEVEL": "warn",
			"PARCOUNT_WORKSPACE": "",
		},
	}
}

// Run executes the CLI with --workspace prepended.
func (c *CLI) Run(t *testing.T, args ...string) Result {
	t.Helper()
	full := append([]string{"--workspace", c.Workspace}, args...)
	return run(t, c.Bin, t.TempDir(), full, c.Env)
}

// MustRun executes the CLI and fails the test on a non-zero exit.
func (c *CLI) MustRun(t *testing.T, args ...string) Result {
	t.Helper()
	res := c.Run(t, args...)
	if res.Code != 0 {
		t.Fatalf("parcount %s exit code %d\nstdout:\n%s\nstderr:\n%s", strings.Join(args, " "), res.Code, res.Stdout, res.Stderr)
	}
	return res
}

// Run executes the CLI in the provided working directory.
func Run(t *testing.T, binPath, workDir string, args []string) Result {
	t.Helper()
	return run(t, binPath, workDir, args, nil)
}

func run(t *testing.T, binPath, workDir string, args []string, env map[string]string) Result {
	t.Helper()

	cmd := exec.Command(binPath, args...)
	cmd.Dir = workDir
	if len(env) > 0 {
		cmd.Env = mergeEnv(env)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		} else {
			t.Fatalf("run %s: %v", binPath, err)
		}
	}

	return Result{Stdout: stdout.String(), Stderr: stderr.String(), Code: exitCode}
}

func mergeEnv(overrides map[string]string) []string {
	env := make(map[string]string, len(overrides))
	for _, entry := range os.Environ() {
		parts := strings.SplitN(entry, "=", 2)
		key := parts[0]
		val := ""
		if len(parts) > 1 {
			val = parts[1]
		}
		env[key] = val
	}

	for k, v := range overrides {
		env[k] = v
	}

	merged := make([]string, 0, len(env))
	for k, v := range env {
		merged = append(merged, k+"="+v)
	}
	sort.Strings(merged)
	return merged
}
