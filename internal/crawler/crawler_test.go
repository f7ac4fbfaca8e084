package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brogergvhs/pagedump/internal/fetch"
	"github.com/brogergvhs/pagedump/internal/sequence"
)

type recordingReporter struct {
	started  int
	skipped  []string
	saved    []string
	failed   []FailReason
	finished *Summary
}

func (r *recordingReporter) RunStarted(total int) { r.started = total }
func (r *recordingReporter) TargetSkipped(_ sequence.Target, fileName string) {
	r.skipped = append(r.skipped, fileName)
}
func (r *recordingReporter) TargetSaved(_ sequence.Target, fileName string, _ int64) {
	r.saved = append(r.saved, fileName)
}
func (r *recordingReporter) TargetFailed(_ sequence.Target, reason FailReason, _ string) {
	r.failed = append(r.failed, reason)
}
func (r *recordingReporter) RunFinished(s Summary) { r.finished = &s }

// pageServer serves /p.N as HTML and records which pages were requested.
type pageServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
	handler  http.HandlerFunc
}

func newPageServer(t *testing.T) *pageServer {
	t.Helper()

	ps := &pageServer{}
	ps.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprintf(w, "<html><body>%s</body></html>", r.URL.Path)
	}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.mu.Lock()
		ps.requests = append(ps.requests, r.URL.Path)
		ps.mu.Unlock()
		ps.handler(w, r)
	}))
	t.Cleanup(ps.Server.Close)

	return ps
}

func (ps *pageServer) requestCount() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.requests)
}

func testCrawler(rep Reporter) *Crawler {
	client := fetch.NewClient(fetch.ClientOptions{
		Timeout:   5 * time.Second,
		UserAgent: "test-agent",
	})

	c := New(client, rep)
	c.sleep = func(time.Duration) {}
	return c
}

func testConfig(srv *pageServer, dir string, start, end int) Config {
	return Config{
		Template:     srv.URL + "/p.{n}",
		StartPage:    start,
		EndPage:      end,
		OutDir:       dir,
		ManifestPath: filepath.Join(dir, "index.txt"),
	}
}

func TestRun_AllSuccess(t *testing.T) {
	srv := newPageServer(t)
	dir := t.TempDir()
	rep := &recordingReporter{}

	sum, err := testCrawler(rep).Run(context.Background(), testConfig(srv, dir, 1, 3))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sum.Downloaded != 3 || sum.Total != 3 {
		t.Errorf("summary = %+v, want 3/3", sum)
	}
	if !sum.Complete() {
		t.Error("summary not complete")
	}
	if rep.started != 3 || rep.finished == nil {
		t.Errorf("reporter: started=%d finished=%v", rep.started, rep.finished)
	}

	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("000%d.html", i)
		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		want := fmt.Sprintf("<html><body>/p.%d</body></html>", i)
		if string(body) != want {
			t.Errorf("%s = %q, want %q", name, body, want)
		}
	}

	man, err := os.ReadFile(filepath.Join(dir, "index.txt"))
	if err != nil {
		t.Fatalf("missing manifest: %v", err)
	}
	want := fmt.Sprintf("0001.html\t%s/p.1\n0002.html\t%s/p.2\n0003.html\t%s/p.3\n",
		srv.URL, srv.URL, srv.URL)
	if string(man) != want {
		t.Errorf("manifest = %q, want %q", man, want)
	}
}

func TestRun_Resumable(t *testing.T) {
	srv := newPageServer(t)
	dir := t.TempDir()

	// Pages 1-3 are already on disk; page 4 is missing, page 5 too.
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("000%d.html", i)
		if err := os.WriteFile(filepath.Join(dir, name), []byte("cached"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	rep := &recordingReporter{}
	sum, err := testCrawler(rep).Run(context.Background(), testConfig(srv, dir, 1, 5))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sum.Downloaded != 5 {
		t.Errorf("Downloaded = %d, want 5", sum.Downloaded)
	}
	if got := srv.requestCount(); got != 2 {
		t.Errorf("network requests = %d (%v), want 2", got, srv.requests)
	}
	if len(rep.skipped) != 3 || len(rep.saved) != 2 {
		t.Errorf("skipped=%v saved=%v", rep.skipped, rep.saved)
	}

	man, _ := os.ReadFile(filepath.Join(dir, "index.txt"))
	lines := 0
	for _, b := range man {
		if b == '\n' {
			lines++
		}
	}
	if lines != 5 {
		t.Errorf("manifest has %d lines, want 5:\n%s", lines, man)
	}
}

func TestRun_Idempotent(t *testing.T) {
	srv := newPageServer(t)
	dir := t.TempDir()
	cfg := testConfig(srv, dir, 1, 4)

	if _, err := testCrawler(nil).Run(context.Background(), cfg); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first, _ := os.ReadFile(cfg.ManifestPath)
	requestsAfterFirst := srv.requestCount()

	if _, err := testCrawler(nil).Run(context.Background(), cfg); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	second, _ := os.ReadFile(cfg.ManifestPath)

	if srv.requestCount() != requestsAfterFirst {
		t.Errorf("second run made %d extra requests", srv.requestCount()-requestsAfterFirst)
	}
	if string(first) != string(second) {
		t.Errorf("manifests differ:\n%s\n---\n%s", first, second)
	}
}

func TestRun_ContentTypeRejected(t *testing.T) {
	srv := newPageServer(t)
	srv.handler = func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/p.2" {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}

	dir := t.TempDir()
	rep := &recordingReporter{}
	sum, err := testCrawler(rep).Run(context.Background(), testConfig(srv, dir, 1, 3))

	if !errors.Is(err, ErrPartial) {
		t.Fatalf("err = %v, want ErrPartial", err)
	}
	if sum.Downloaded != 2 || sum.Total != 3 {
		t.Errorf("summary = %+v, want 2/3", sum)
	}

	if _, err := os.Stat(filepath.Join(dir, "0002.html")); !os.IsNotExist(err) {
		t.Error("rejected page was written to disk")
	}

	man, _ := os.ReadFile(filepath.Join(dir, "index.txt"))
	if strings.Contains(string(man), "0002.html") {
		t.Errorf("manifest contains rejected page:\n%s", man)
	}
	if len(rep.failed) != 1 || rep.failed[0] != ReasonContentType {
		t.Errorf("failed = %v, want [ReasonContentType]", rep.failed)
	}
}

func TestRun_BadStatus(t *testing.T) {
	srv := newPageServer(t)
	srv.handler = func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/p.2" || r.URL.Path == "/p.4" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}

	dir := t.TempDir()
	rep := &recordingReporter{}
	sum, err := testCrawler(rep).Run(context.Background(), testConfig(srv, dir, 1, 5))

	if !errors.Is(err, ErrPartial) {
		t.Fatalf("err = %v, want ErrPartial", err)
	}
	if sum.Downloaded != 3 || sum.Total != 5 {
		t.Errorf("summary = %+v, want 3/5", sum)
	}
	if len(rep.failed) != 2 {
		t.Errorf("failed = %v, want two bad-status failures", rep.failed)
	}
	for _, reason := range rep.failed {
		if reason != ReasonBadStatus {
			t.Errorf("failure reason = %v, want ReasonBadStatus", reason)
		}
	}
}

func TestRun_TransportFailure(t *testing.T) {
	srv := newPageServer(t)
	dir := t.TempDir()
	cfg := testConfig(srv, dir, 1, 2)
	srv.Close()

	rep := &recordingReporter{}
	sum, err := testCrawler(rep).Run(context.Background(), cfg)

	if !errors.Is(err, ErrPartial) {
		t.Fatalf("err = %v, want ErrPartial", err)
	}
	if sum.Downloaded != 0 {
		t.Errorf("Downloaded = %d, want 0", sum.Downloaded)
	}
	for _, reason := range rep.failed {
		if reason != ReasonTransport {
			t.Errorf("failure reason = %v, want ReasonTransport", reason)
		}
	}

	// Failed targets leave no file, so the next run retries them.
	if _, err := os.Stat(filepath.Join(dir, "0001.html")); !os.IsNotExist(err) {
		t.Error("failed page left a file behind")
	}
}

func TestRun_DelayOnlyAfterDownload(t *testing.T) {
	srv := newPageServer(t)
	dir := t.TempDir()

	// Page 1 pre-seeded: skip path must not sleep.
	if err := os.WriteFile(filepath.Join(dir, "0001.html"), []byte("cached"), 0644); err != nil {
		t.Fatal(err)
	}

	client := fetch.NewClient(fetch.ClientOptions{Timeout: 5 * time.Second, UserAgent: "test"})
	c := New(client, nil)

	var sleeps int
	c.sleep = func(time.Duration) { sleeps++ }

	cfg := testConfig(srv, dir, 1, 3)
	cfg.Delay = 100 * time.Millisecond

	if _, err := c.Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sleeps != 2 {
		t.Errorf("sleeps = %d, want 2 (one per fresh download)", sleeps)
	}
}

func TestRun_ZeroSizeFileRefetched(t *testing.T) {
	srv := newPageServer(t)
	dir := t.TempDir()

	// An empty file does not count as downloaded.
	if err := os.WriteFile(filepath.Join(dir, "0001.html"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	sum, err := testCrawler(nil).Run(context.Background(), testConfig(srv, dir, 1, 1))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sum.Downloaded != 1 {
		t.Errorf("Downloaded = %d, want 1", sum.Downloaded)
	}
	if srv.requestCount() != 1 {
		t.Errorf("requests = %d, want 1", srv.requestCount())
	}
}

func TestRun_BadTemplate(t *testing.T) {
	srv := newPageServer(t)
	dir := t.TempDir()

	cfg := testConfig(srv, dir, 1, 3)
	cfg.Template = srv.URL + "/p.1" // no placeholder

	_, err := testCrawler(nil).Run(context.Background(), cfg)
	if !errors.Is(err, sequence.ErrNoPlaceholder) {
		t.Fatalf("err = %v, want ErrNoPlaceholder", err)
	}
	if srv.requestCount() != 0 {
		t.Errorf("requests = %d, want 0 before config errors", srv.requestCount())
	}
}

func TestRun_ManifestWriteFatal(t *testing.T) {
	srv := newPageServer(t)
	dir := t.TempDir()

	cfg := testConfig(srv, dir, 1, 2)
	cfg.ManifestPath = filepath.Join(dir, "missing", "index.txt")

	_, err := testCrawler(nil).Run(context.Background(), cfg)
	if err == nil || errors.Is(err, ErrPartial) {
		t.Fatalf("err = %v, want fatal manifest error", err)
	}
}
