package acceptance_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// runDocmeta executes the docmeta binary and returns stdout, stderr, and exit code.
func runDocmeta(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(docmetaBinary, args...)
	cmd.Dir = dir
	cmd.Env = cleanEnv()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run docmeta: %v", err)
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// runDocmetaSuccess runs docmeta expecting exit code 0 and returns stdout.
func runDocmetaSuccess(t *testing.T, dir string, args ...string) string {
	t.Helper()
	stdout, stderr, exitCode := runDocmeta(t, dir, args...)
	if exitCode != 0 {
		t.Fatalf("expected exit 0, got %d\nargs: %v\nstdout: %s\nstderr: %s", exitCode, args, stdout, stderr)
	}
	return stdout
}

// cleanEnv returns the process environment without DOCMETA_* variables.
func cleanEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "DOCMETA_") || strings.HasPrefix(kv, "NO_COLOR=") {
			continue
		}
		env = append(env, kv)
	}
	return env
}

// writeTree creates files (slash paths relative to root) with the given content.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// header builds a metadata header with the given Last Updated and Status.
func header(lastUpdated, status, decision string) string {
	h := "# Document\n\n" +
		"Title: Document\n" +
		"Version: 1.2.3\n" +
		"Last Updated: " + lastUpdated + "\n" +
		"Owner: Platform Team (platform@example.com)\n" +
		"Status: " + status + "\n"
	if decision != "" {
		h += "Decision: " + decision + "\n"
	}
	return h + "\n## Context\n\nBody text.\n"
}

// checkJSON runs docmeta check --json and parses the result.
func checkJSON(t *testing.T, dir string, extraArgs ...string) (map[string]any, int) {
	t.Helper()
	args := append([]string{"check", "--json"}, extraArgs...)
	stdout, stderr, code := runDocmeta(t, dir, args...)
	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse check JSON: %v\nstdout: %s\nstderr: %s", err, stdout, stderr)
	}
	return result, code
}

// documentPaths extracts the document paths from a check --json result.
func documentPaths(t *testing.T, result map[string]any) []string {
	t.Helper()
	docs, ok := result["documents"].([]any)
	if !ok {
		t.Fatal("missing documents in result")
	}
	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		paths = append(paths, d.(map[string]any)["path"].(string))
	}
	return paths
}
