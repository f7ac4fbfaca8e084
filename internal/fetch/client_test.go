package fetch

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient_SetsHeaders(t *testing.T) {
	var gotUA, gotAccept, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotLang = r.Header.Get("Accept-Language")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{
		Timeout:   5 * time.Second,
		UserAgent: "Mozilla/5.0 (compatible; pagedump/1.0)",
	})

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer resp.Body.Close()

	if gotUA != "Mozilla/5.0 (compatible; pagedump/1.0)" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotAccept != "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotLang != "ru,en;q=0.8" {
		t.Errorf("Accept-Language = %q", gotLang)
	}
}

func TestNewClient_RetriesTransientStatus(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	policy := DefaultRetryPolicy()
	policy.Sleep = func(time.Duration) {}

	client := NewClient(ClientOptions{
		Timeout:   5 * time.Second,
		UserAgent: "test",
		Retry:     policy,
	})

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if calls != 3 {
		t.Errorf("server calls = %d, want 3", calls)
	}
}
