package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playlist.m3u8")

	if err := WriteFileAtomic(path, []byte("one\ntwo\n"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("content = %q, want %q", data, "one\ntwo\n")
	}

	// No staging files may remain next to the destination.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".part") {
			t.Errorf("staging file left behind: %s", e.Name())
		}
	}
}

func TestWriteFileAtomic_Overwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("new"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("content = %q, want %q", data, "new")
	}
}

func TestWriteFileAtomic_FailureLeavesTargetUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing-parent", "out.txt")

	// Parent directory does not exist, so the staged write must fail and
	// the final path must not exist.
	if err := WriteFileAtomic(path, []byte("data"), 0644); err == nil {
		t.Fatal("WriteFileAtomic() expected error for missing parent")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("target should not exist, stat err = %v", err)
	}
}

func TestTempPath(t *testing.T) {
	dest := filepath.Join("a", "b", "song.flac")
	tmp := TempPath(dest)

	if filepath.Dir(tmp) != filepath.Dir(dest) {
		t.Errorf("TempPath dir = %q, want same dir as dest %q", filepath.Dir(tmp), filepath.Dir(dest))
	}
	base := filepath.Base(tmp)
	if !strings.HasPrefix(base, ".song.flac.") || !strings.HasSuffix(base, ".part") {
		t.Errorf("TempPath base = %q, want hidden .part sibling", base)
	}
	if TempPath(dest) == tmp {
		t.Error("TempPath should produce unique names")
	}
}
