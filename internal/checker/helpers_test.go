package checker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

// newPageServer serves body as text/html with the extra headers on every path.
func newPageServer(t *testing.T, body string, headers map[string]string) (*httptest.Server, scan.Target) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Add(k, v)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, mustTarget(t, srv.URL)
}

func mustTarget(t *testing.T, raw string) scan.Target {
	t.Helper()
	target, err := scan.NewTarget(raw)
	if err != nil {
		t.Fatalf("NewTarget(%q): %v", raw, err)
	}
	return target
}

func mustFetch(t *testing.T, body string, headers map[string]string) (*Page, scan.Target) {
	t.Helper()
	srv, target := newPageServer(t, body, headers)
	page, err := fetchPage(context.Background(), srv.Client(), target, "test-agent")
	if err != nil {
		t.Fatalf("fetchPage: %v", err)
	}
	return page, target
}

func detailStrings(t *testing.T, r scan.Result, key string) []string {
	t.Helper()
	v, ok := r.Detail(key)
	if !ok {
		t.Fatalf("expected detail %q in %+v", key, r)
	}
	s, ok := v.([]string)
	if !ok {
		t.Fatalf("detail %q is %T, want []string", key, v)
	}
	return s
}
