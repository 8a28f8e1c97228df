package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLogFile(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestMine_Table(t *testing.T) {
	input := writeLogFile(t,
		"connected from 10.0.0.1",
		"connected from 10.0.0.2",
		"disk sda1 is full",
	)

	out, err := runApp(t, "mine", input)
	if err != nil {
		t.Fatalf("mine failed: %v", err)
	}

	if !strings.Contains(out, "connected from <*>") {
		t.Errorf("output missing generalized template: %q", out)
	}
	if !strings.Contains(out, "TEMPLATE") {
		t.Errorf("output missing table header: %q", out)
	}
}

func TestMine_JSON(t *testing.T) {
	input := writeLogFile(t,
		"session opened for alice",
		"session opened for bob",
	)

	out, err := runApp(t, "-o", "json", "mine", input)
	if err != nil {
		t.Fatalf("mine failed: %v", err)
	}

	var rows []clusterRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(rows) != 1 {
		t.Fatalf("mined %d clusters, want 1", len(rows))
	}
	if rows[0].Size != 2 {
		t.Errorf("cluster size = %d, want 2", rows[0].Size)
	}
	if rows[0].Template != "session opened for <*>" {
		t.Errorf("template = %q, want %q", rows[0].Template, "session opened for <*>")
	}
}

func TestMine_Changes(t *testing.T) {
	input := writeLogFile(t,
		"job 12 finished",
		"job 14 finished",
	)

	out, err := runApp(t, "mine", "--changes", input)
	if err != nil {
		t.Fatalf("mine failed: %v", err)
	}

	if !strings.Contains(out, "cluster_created") {
		t.Errorf("output missing change events: %q", out)
	}
}

func TestMine_SnapshotRoundTrip(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "snapshot")

	first := writeLogFile(t, "session opened for alice")
	if _, err := runApp(t, "mine", "--snapshot", snapshot, first); err != nil {
		t.Fatalf("first mine failed: %v", err)
	}
	if _, err := os.Stat(snapshot); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	// A second run restores the state and keeps counting.
	second := writeLogFile(t, "session opened for bob")
	out, err := runApp(t, "-o", "json", "mine", "--snapshot", snapshot, second)
	if err != nil {
		t.Fatalf("second mine failed: %v", err)
	}

	var rows []clusterRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(rows) != 1 {
		t.Fatalf("restored run mined %d clusters, want 1", len(rows))
	}
	if rows[0].Size != 2 {
		t.Errorf("cluster size after restore = %d, want 2", rows[0].Size)
	}
}

func TestMine_MissingInput(t *testing.T) {
	if _, err := runApp(t, "mine", "/nonexistent/input.log"); err == nil {
		t.Fatal("expected error for missing input file")
	}
}
