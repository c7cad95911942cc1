package checker

import (
	"context"
	"testing"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

func TestFindSocialEmbeds(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantPlatforms []string
		wantEnhanced  int
	}{
		{
			name:          "facebook sdk and pixel",
			body:          `<script src="https://connect.facebook.net/en_US/sdk.js"></script><img src="https://www.facebook.com/tr?id=123&ev=PageView">`,
			wantPlatforms: []string{"Facebook"},
		},
		{
			name:          "youtube and twitter",
			body:          `<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ"></iframe><script src="https://platform.twitter.com/widgets.js"></script>`,
			wantPlatforms: []string{"Twitter/X", "YouTube"},
		},
		{
			name:         "privacy enhanced youtube",
			body:         `<iframe src="https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ"></iframe>`,
			wantEnhanced: 1,
		},
		{
			name: "plain links are not embeds",
			body: `<a href="https://www.facebook.com/example">Follow us</a><img src="/img/facebook-icon.svg">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, _ := mustFetch(t, tt.body, nil)
			found := FindSocialEmbeds(page)
			if len(found.Platforms) != len(tt.wantPlatforms) {
				t.Fatalf("expected platforms %v, got %v", tt.wantPlatforms, found.Platforms)
			}
			for i := range tt.wantPlatforms {
				if found.Platforms[i] != tt.wantPlatforms[i] {
					t.Fatalf("expected platforms %v, got %v", tt.wantPlatforms, found.Platforms)
				}
			}
			if len(found.PrivacyEnhanced) != tt.wantEnhanced {
				t.Fatalf("expected %d privacy-enhanced embeds, got %v", tt.wantEnhanced, found.PrivacyEnhanced)
			}
		})
	}
}

func TestSocialChecker_Check(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus scan.Status
	}{
		{name: "tracker", body: `<script src="https://snap.licdn.com/li.lms-analytics/insight.min.js"></script>`, wantStatus: scan.StatusFail},
		{name: "privacy enhanced only", body: `<iframe src="https://www.youtube-nocookie.com/embed/x"></iframe>`, wantStatus: scan.StatusInfo},
		{name: "none", body: `<p>no widgets</p>`, wantStatus: scan.StatusPass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, target := newPageServer(t, tt.body, nil)
			result := (&SocialChecker{Client: srv.Client()}).Check(context.Background(), target)
			if result.Status != tt.wantStatus {
				t.Fatalf("expected %s, got %s (%s)", tt.wantStatus, result.Status, result.Message)
			}
		})
	}
}
