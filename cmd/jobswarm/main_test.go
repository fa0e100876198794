package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "run",
		"--size", "32", "--tile", "4", "--iterations", "64", "--workers", "2",
		"--output-dir", dir, "--log-level", "error",
	)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if strings.Contains(out, "differs") {
		t.Fatalf("swarm image differs from linear:\n%s", out)
	}
	// two swarm runs of 64 jobs each
	if !strings.Contains(out, "submitted=128 ") {
		t.Fatalf("missing metrics summary:\n%s", out)
	}
	for _, name := range imageFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("image %s not written: %v", name, err)
		}
	}
}

func TestStressCommand(t *testing.T) {
	out, err := execute(t, "stress",
		"--size", "16", "--repetitions", "2", "--workers", "2",
		"--metrics", "otel", "--log-level", "error",
	)
	if err != nil {
		t.Fatalf("stress: %v\n%s", err, out)
	}
	if !strings.Contains(out, "tile 2") || !strings.Contains(out, "spool-ceiling 32") {
		t.Fatalf("stress preset not applied:\n%s", out)
	}
	if !strings.Contains(out, "Average time of 2 tests") {
		t.Fatalf("missing average:\n%s", out)
	}
	if !strings.Contains(out, "jobswarm.jobs.submitted=128") {
		t.Fatalf("missing otel totals:\n%s", out)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	_, err := execute(t, "run", "--size", "32", "--tile", "3", "--write-images=false")
	if err == nil || !strings.Contains(err.Error(), "tile 3 must evenly divide size 32") {
		t.Fatalf("err = %v; want tile validation error", err)
	}
}
