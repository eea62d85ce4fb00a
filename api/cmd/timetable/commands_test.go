package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const saved = `{"days":[{"day":"MON","classes":[{"subject":"Math","startTime":"9:00 AM","endTime":"10:00 AM","room":"A1"}]}]}`

func setupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "tt.json")
	t.Setenv("TIMETABLE_STORE_DRIVER", "file")
	t.Setenv("TIMETABLE_STORE_PATH", path)
	t.Setenv("TIMETABLE_LOG_LEVEL", "error")
	if err := os.WriteFile(path, []byte(saved), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestShow(t *testing.T) {
	setupDir(t)
	for format, want := range map[string]string{
		"json": `"subject": "Math"`,
		"yaml": "subject: Math",
	} {
		var out bytes.Buffer
		cmd := showCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"-o", format})
		if err := cmd.ExecuteContext(context.Background()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), want) {
			t.Errorf("%s output:\n%s", format, out.String())
		}
	}
}

func TestExportAndDelete(t *testing.T) {
	dir := setupDir(t)

	target := filepath.Join(dir, "tt.ics")
	cmd := exportCmd()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "ics", "-o", target})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(target)
	if err != nil || !bytes.Contains(b, []byte("SUMMARY:Math")) {
		t.Fatalf("ics = %s, %v", b, err)
	}

	var out bytes.Buffer
	del := deleteCmd()
	del.SetOut(&out)
	del.SetArgs([]string{})
	if err := del.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tt.json")); !os.IsNotExist(err) {
		t.Fatalf("timetable file still there: %v", err)
	}

	exp := exportCmd()
	exp.SetArgs([]string{"--format", "xlsx"})
	exp.SetOut(&bytes.Buffer{})
	exp.SetErr(&bytes.Buffer{})
	if err := exp.ExecuteContext(context.Background()); err == nil {
		t.Fatal("export without a timetable should fail")
	}
}

func TestPrintData_UnknownFormat(t *testing.T) {
	if err := printData(&bytes.Buffer{}, map[string]int{"a": 1}, "toml"); err == nil {
		t.Fatal("expected error")
	}
}
