package checker

import (
	"context"
	"testing"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

func TestFindAnalytics(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantProviders []string
		wantIDs       []string
	}{
		{
			name:          "gtag",
			body:          `<script async src="https://www.googletagmanager.com/gtag/js?id=G-ABCDEF1234"></script><script>gtag('config', 'G-ABCDEF1234');</script>`,
			wantProviders: []string{"Google Analytics"},
			wantIDs:       []string{"G-ABCDEF1234"},
		},
		{
			name:          "universal analytics",
			body:          `<script>ga('create', 'UA-12345678-1', 'auto');</script>`,
			wantProviders: []string{"Google Analytics"},
			wantIDs:       []string{"UA-12345678-1"},
		},
		{
			name:          "tag manager",
			body:          `<script src="https://www.googletagmanager.com/gtm.js?id=GTM-AB12CD"></script>`,
			wantProviders: []string{"Google Tag Manager"},
		},
		{
			name:          "matomo",
			body:          `<script>var _paq = window._paq || []; _paq.push(['trackPageView']);</script><script src="https://stats.example.org/matomo.js?v=4"></script>`,
			wantProviders: []string{"Matomo/Piwik"},
		},
		{
			name:          "piwik",
			body:          `<script src="/piwik/piwik.js"></script>`,
			wantProviders: []string{"Matomo/Piwik"},
		},
		{
			name: "clean",
			body: `<script src="/js/app.js"></script><script>console.log("G-not-an-id")</script>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, _ := mustFetch(t, tt.body, nil)
			found := FindAnalytics(page)
			if len(found.Providers) != len(tt.wantProviders) {
				t.Fatalf("expected providers %v, got %v", tt.wantProviders, found.Providers)
			}
			for i := range tt.wantProviders {
				if found.Providers[i] != tt.wantProviders[i] {
					t.Fatalf("expected providers %v, got %v", tt.wantProviders, found.Providers)
				}
			}
			if len(found.IDs) != len(tt.wantIDs) {
				t.Fatalf("expected ids %v, got %v", tt.wantIDs, found.IDs)
			}
		})
	}
}

func TestAnalyticsChecker_Check(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus scan.Status
	}{
		{name: "google", body: `<script src="https://www.google-analytics.com/analytics.js"></script>`, wantStatus: scan.StatusFail},
		{name: "matomo only", body: `<script>_paq.push(['trackPageView']);</script>`, wantStatus: scan.StatusInfo},
		{name: "both", body: `<script>_paq.push([]); ga('create', 'UA-1234-1');</script>`, wantStatus: scan.StatusFail},
		{name: "none", body: `<p>nothing</p>`, wantStatus: scan.StatusPass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, target := newPageServer(t, tt.body, nil)
			result := (&AnalyticsChecker{Client: srv.Client()}).Check(context.Background(), target)
			if result.Status != tt.wantStatus {
				t.Fatalf("expected %s, got %s (%s)", tt.wantStatus, result.Status, result.Message)
			}
		})
	}
}
