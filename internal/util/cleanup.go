package util

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

func SetupInterruptHandler(outputDir string) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		fmt.Println("\nInterrupt received. Cleaning up...")

		RemoveEmptyPages(outputDir)
		fmt.Println("Exiting. Re-run to resume the crawl.")

		os.Exit(1)
	}()
}

// RemoveEmptyPages deletes zero-byte .html files from the output folder.
// A write cut off by the interrupt can leave an empty file behind; the
// resume check ignores those anyway, this just keeps the dump clean.
func RemoveEmptyPages(outputDir string) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}

		info, err := e.Info()
		if err != nil || info.Size() > 0 {
			continue
		}

		full := filepath.Join(outputDir, e.Name())
		if err := os.Remove(full); err != nil {
			fmt.Printf("Error cleaning up %s: %v\n", full, err)
		} else {
			fmt.Printf("Removed empty %s\n", full)
		}
	}
}
