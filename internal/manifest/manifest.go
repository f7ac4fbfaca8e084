package manifest

import (
	"fmt"
	"os"
	"strings"
)

// Entry maps one saved page file back to the URL it came from.
type Entry struct {
	FileName  string
	SourceURL string
}

// Writer accumulates entries in run order and writes them out in one pass
// when the run finishes. Nothing is persisted incrementally: an interrupted
// run keeps its page files but loses the manifest, and a re-run rebuilds it.
type Writer struct {
	entries []Entry
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Append(fileName, sourceURL string) {
	w.entries = append(w.entries, Entry{FileName: fileName, SourceURL: sourceURL})
}

func (w *Writer) Len() int {
	return len(w.entries)
}

func (w *Writer) Entries() []Entry {
	return w.entries
}

// Flush writes one filename<TAB>url line per entry, newline-terminated,
// overwriting whatever is at path.
func (w *Writer) Flush(path string) error {
	var b strings.Builder
	for _, e := range w.entries {
		b.WriteString(e.FileName)
		b.WriteByte('\t')
		b.WriteString(e.SourceURL)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}

	return nil
}
