package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriter_Flush(t *testing.T) {
	w := NewWriter()
	w.Append("0001.html", "https://site.com/p.1/index.html")
	w.Append("0002.html", "https://site.com/p.2/index.html")

	path := filepath.Join(t.TempDir(), "index.txt")
	if err := w.Flush(path); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	want := "0001.html\thttps://site.com/p.1/index.html\n" +
		"0002.html\thttps://site.com/p.2/index.html\n"
	if string(got) != want {
		t.Errorf("manifest = %q, want %q", got, want)
	}
}

func TestWriter_FlushOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.txt")
	if err := os.WriteFile(path, []byte("stale content\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewWriter()
	w.Append("0001.html", "https://site.com/p.1")
	if err := w.Flush(path); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "0001.html\thttps://site.com/p.1\n" {
		t.Errorf("manifest = %q", got)
	}
}

func TestWriter_FlushMissingDir(t *testing.T) {
	w := NewWriter()
	w.Append("0001.html", "https://site.com/p.1")

	err := w.Flush(filepath.Join(t.TempDir(), "no", "such", "dir", "index.txt"))
	if err == nil {
		t.Fatal("Flush into missing directory succeeded, want error")
	}
}

func TestWriter_Empty(t *testing.T) {
	w := NewWriter()
	if w.Len() != 0 {
		t.Errorf("Len = %d, want 0", w.Len())
	}

	path := filepath.Join(t.TempDir(), "index.txt")
	if err := w.Flush(path); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	got, _ := os.ReadFile(path)
	if len(got) != 0 {
		t.Errorf("empty manifest wrote %q", got)
	}
}
