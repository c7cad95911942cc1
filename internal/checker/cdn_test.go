package checker

import (
	"context"
	"net/http"
	"testing"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

func TestFindCDNAssets(t *testing.T) {
	page, target := mustFetch(t, `
<script src="https://cdnjs.cloudflare.com/ajax/libs/jquery/3.7.1/jquery.min.js"></script>
<script src="https://cdn.jsdelivr.net/npm/bootstrap@5/dist/js/bootstrap.min.js"></script>
<link rel="stylesheet" href="https://d111111abcdef8.cloudfront.net/site.css">
<script src="/js/app.js"></script>
<img src="https://images.example.org/logo.png">`, nil)

	hosts, assets := FindCDNAssets(page, target)
	want := []string{"cdn.jsdelivr.net", "cdnjs.cloudflare.com", "d111111abcdef8.cloudfront.net"}
	if len(hosts) != len(want) {
		t.Fatalf("expected hosts %v, got %v", want, hosts)
	}
	for i := range want {
		if hosts[i] != want[i] {
			t.Fatalf("expected hosts %v, got %v", want, hosts)
		}
	}
	if len(assets) != 3 {
		t.Fatalf("expected 3 assets, got %v", assets)
	}
}

func TestDetectCDNProvider(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		want   string
	}{
		{name: "cloudflare ray", header: http.Header{"Cf-Ray": {"8a1b2c3d4e5f-CDG"}}, want: "Cloudflare"},
		{name: "cloudflare server", header: http.Header{"Server": {"cloudflare"}}, want: "Cloudflare"},
		{name: "cloudfront", header: http.Header{"X-Amz-Cf-Id": {"abc"}}, want: "Amazon CloudFront"},
		{name: "fastly", header: http.Header{"X-Served-By": {"cache-par-lfpg1960021-PAR"}}, want: "Fastly"},
		{name: "plain server", header: http.Header{"Server": {"nginx"}}, want: ""},
		{name: "nil", header: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCDNProvider(tt.header); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCDNChecker_Check(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		headers    map[string]string
		wantStatus scan.Status
	}{
		{
			name:       "public cdn asset",
			body:       `<script src="https://unpkg.com/react@18/umd/react.production.min.js"></script>`,
			wantStatus: scan.StatusFail,
		},
		{
			name:       "fronted by cdn only",
			body:       `<script src="/app.js"></script>`,
			headers:    map[string]string{"CF-Ray": "8a1b2c3d4e5f-CDG"},
			wantStatus: scan.StatusInfo,
		},
		{
			name:       "self-hosted",
			body:       `<script src="/app.js"></script>`,
			wantStatus: scan.StatusPass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, target := newPageServer(t, tt.body, tt.headers)
			result := (&CDNChecker{Client: srv.Client()}).Check(context.Background(), target)
			if result.Status != tt.wantStatus {
				t.Fatalf("expected %s, got %s (%s)", tt.wantStatus, result.Status, result.Message)
			}
		})
	}
}
