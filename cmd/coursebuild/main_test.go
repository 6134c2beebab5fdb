package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursebuild/internal/testsupport"
)

func writeCLIConfig(t *testing.T, root string) string {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ncourse_root = %q\nlog_dir = %q\n\n[logging]\nlevel = \"error\"\n",
		root,
		filepath.Join(root, "logs"),
	)
	configPath := filepath.Join(root, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLIRunLessonAndStatus(t *testing.T) {
	root := testsupport.CourseRoot(t)
	configPath := writeCLIConfig(t, root)

	out, _, err := runCLI(t, configPath, "run-lesson", "M01-L001")
	if err != nil {
		t.Fatalf("run-lesson: %v", err)
	}
	if !strings.Contains(out, "passed") {
		t.Fatalf("unexpected run-lesson output: %q", out)
	}

	out, _, err = runCLI(t, configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "READY_TO_RECORD") {
		t.Fatalf("expected READY_TO_RECORD in status output, got %q", out)
	}

	out, _, err = runCLI(t, configPath, "validate", "M01-L001")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "Validation passed") {
		t.Fatalf("unexpected validate output: %q", out)
	}
}

func TestCLISetStatusRefusesReady(t *testing.T) {
	root := testsupport.CourseRoot(t)
	configPath := writeCLIConfig(t, root)

	if _, _, err := runCLI(t, configPath, "set-status", "M01-L001", "READY_TO_RECORD"); err == nil {
		t.Fatal("expected set-status READY_TO_RECORD to be refused")
	}

	out, _, err := runCLI(t, configPath, "set-status", "M01-L001", "planned")
	if err != nil {
		t.Fatalf("set-status planned: %v", err)
	}
	if !strings.Contains(out, "PLANNED") {
		t.Fatalf("unexpected set-status output: %q", out)
	}
}

func TestCLIValidateReportsIssues(t *testing.T) {
	root := testsupport.CourseRoot(t)
	configPath := writeCLIConfig(t, root)

	if _, _, err := runCLI(t, configPath, "run-lesson", "M01-L001"); err != nil {
		t.Fatalf("run-lesson: %v", err)
	}

	docPath := filepath.Join(root, "modules", "M01", "L001", "script-spoken.md")
	if err := appendLine(docPath, "Now say: khawR."); err != nil {
		t.Fatalf("append drift: %v", err)
	}

	out, _, err := runCLI(t, configPath, "validate", "M01-L001")
	if err == nil {
		t.Fatal("expected validation failure after document drift")
	}
	if !strings.Contains(out, "tone") {
		t.Fatalf("expected a tone finding in output, got %q", out)
	}
}

func TestCLITranslitAudit(t *testing.T) {
	root := testsupport.CourseRoot(t)
	configPath := writeCLIConfig(t, root)

	if _, _, err := runCLI(t, configPath, "run-lesson", "M01-L001"); err != nil {
		t.Fatalf("run-lesson: %v", err)
	}

	out, _, err := runCLI(t, configPath, "translit-audit")
	if err != nil {
		t.Fatalf("translit-audit on clean course: %v", err)
	}
	if !strings.Contains(out, "No policy violations found") {
		t.Fatalf("unexpected audit output: %q", out)
	}
}

func TestCLIConfigInit(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "config.toml")

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config at %s: %v", target, err)
	}
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line + "\n")
	return err
}
