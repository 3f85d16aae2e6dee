package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReplaceSlot(t *testing.T) {
	t.Run("Replaces Slot Content", func(t *testing.T) {
		dir := t.TempDir()
		filename := filepath.Join(dir, "notes.json")

		if err := os.WriteFile(filename, []byte(`[{"id":"old"}]`), 0600); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
		if err := replaceSlot(filename, []byte(`[]`)); err != nil {
			t.Fatalf("replaceSlot failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != `[]` {
			t.Errorf("Expected '[]', got '%s'", string(got))
		}

		info, err := os.Stat(filename)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != slotPerm {
			t.Errorf("Expected mode %o, got %o", slotPerm, info.Mode().Perm())
		}
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		dir := t.TempDir()
		for i := 0; i < 5; i++ {
			if err := replaceSlot(filepath.Join(dir, "notes.json"), []byte(`[]`)); err != nil {
				t.Fatalf("replaceSlot failed: %v", err)
			}
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if isTempFile(e.Name()) {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
		if len(entries) != 1 {
			t.Errorf("expected exactly one file, got %d", len(entries))
		}
	})

	t.Run("Failed Rename Removes Staged File", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "notes.json")
		if err := os.Mkdir(target, 0755); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		if err := replaceSlot(target, []byte(`[]`)); err == nil {
			t.Fatal("Expected error when the slot path is a directory, got nil")
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if isTempFile(e.Name()) {
				t.Errorf("staged file left behind: %s", e.Name())
			}
		}
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "missing", "notes.json")
		if err := replaceSlot(filename, []byte(`[]`)); err == nil {
			t.Error("Expected error when directory is missing, got nil")
		}
	})
}
