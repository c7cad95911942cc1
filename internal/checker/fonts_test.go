package checker

import (
	"context"
	"testing"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

func TestFindExternalFonts(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantHosts []string
	}{
		{
			name:      "google fonts stylesheet",
			body:      `<link rel="stylesheet" href="https://fonts.googleapis.com/css2?family=Roboto">`,
			wantHosts: []string{"fonts.googleapis.com"},
		},
		{
			name:      "preloaded font on unknown host",
			body:      `<link rel="preload" as="font" href="https://static.fontshop.example/a.woff2">`,
			wantHosts: []string{"static.fontshop.example"},
		},
		{
			name:      "font-face in inline style",
			body:      `<style>@font-face { font-family: X; src: url('https://assets.other.example/x.ttf') format('truetype'); }</style>`,
			wantHosts: []string{"assets.other.example"},
		},
		{
			name:      "import in inline style",
			body:      `<style>@import "https://fonts.googleapis.com/css?family=Lato";</style>`,
			wantHosts: []string{"fonts.googleapis.com"},
		},
		{
			name:      "typekit kit script",
			body:      `<script src="https://use.typekit.net/abc.js"></script>`,
			wantHosts: []string{"use.typekit.net"},
		},
		{
			name: "self-hosted fonts",
			body: `<link rel="preload" as="font" href="/fonts/a.woff2">
<style>@font-face { src: url(/fonts/b.woff); }</style>
<link rel="stylesheet" href="https://cdn.other.example/site.css">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, target := mustFetch(t, tt.body, nil)
			hosts, _ := FindExternalFonts(page, target)
			if len(hosts) != len(tt.wantHosts) {
				t.Fatalf("expected hosts %v, got %v", tt.wantHosts, hosts)
			}
			for i := range hosts {
				if hosts[i] != tt.wantHosts[i] {
					t.Fatalf("expected hosts %v, got %v", tt.wantHosts, hosts)
				}
			}
		})
	}
}

func TestFontChecker_Check(t *testing.T) {
	srv, target := newPageServer(t, `<link rel="stylesheet" href="https://fonts.googleapis.com/css2?family=Roboto">`, nil)
	chk := &FontChecker{Client: srv.Client()}

	result := chk.Check(context.Background(), target)
	if result.Status != scan.StatusFail {
		t.Fatalf("expected fail, got %s (%s)", result.Status, result.Message)
	}
	if hosts := detailStrings(t, result, "hosts"); len(hosts) != 1 || hosts[0] != "fonts.googleapis.com" {
		t.Fatalf("unexpected hosts detail: %v", hosts)
	}

	srv, target = newPageServer(t, `<p>plain</p>`, nil)
	chk = &FontChecker{Client: srv.Client()}
	if result := chk.Check(context.Background(), target); result.Status != scan.StatusPass {
		t.Fatalf("expected pass, got %s (%s)", result.Status, result.Message)
	}
}

func TestFontChecker_FetchError(t *testing.T) {
	srv, target := newPageServer(t, "", nil)
	client := srv.Client()
	srv.Close()

	result := (&FontChecker{Client: client}).Check(context.Background(), target)
	if result.Status != scan.StatusError {
		t.Fatalf("expected error when the site is unreachable, got %s", result.Status)
	}
}
