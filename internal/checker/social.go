package checker

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

// socialRule matches a social media script, widget or embed URL.
type socialRule struct {
	platform   string
	domain     string
	pathPrefix string
}

var socialRules = []socialRule{
	{platform: "Facebook", domain: "connect.facebook.net"},
	{platform: "Facebook", domain: "facebook.com", pathPrefix: "/plugins/"},
	{platform: "Facebook", domain: "facebook.com", pathPrefix: "/tr"},
	{platform: "Twitter/X", domain: "platform.twitter.com"},
	{platform: "Twitter/X", domain: "syndication.twitter.com"},
	{platform: "Twitter/X", domain: "platform.x.com"},
	{platform: "YouTube", domain: "youtube.com", pathPrefix: "/embed/"},
	{platform: "YouTube", domain: "youtube.com", pathPrefix: "/iframe_api"},
	{platform: "Instagram", domain: "instagram.com", pathPrefix: "/embed.js"},
	{platform: "Instagram", domain: "instagram.com", pathPrefix: "/p/"},
	{platform: "LinkedIn", domain: "platform.linkedin.com"},
	{platform: "LinkedIn", domain: "snap.licdn.com"},
	{platform: "Pinterest", domain: "assets.pinterest.com"},
	{platform: "TikTok", domain: "tiktok.com", pathPrefix: "/embed"},
	{platform: "TikTok", domain: "analytics.tiktok.com"},
	{platform: "AddThis", domain: "addthis.com"},
	{platform: "ShareThis", domain: "sharethis.com"},
	{platform: "Disqus", domain: "disqus.com", pathPrefix: "/embed.js"},
}

// privacyEnhancedDomains host embeds that do not set tracking cookies until played.
var privacyEnhancedDomains = []string{"youtube-nocookie.com"}

// SocialFindings lists the social platforms embedded in a page.
type SocialFindings struct {
	Platforms       []string
	URLs            []string
	PrivacyEnhanced []string
}

// SocialChecker fails when the page embeds social media trackers or widgets.
type SocialChecker struct {
	Client    *http.Client
	UserAgent string
}

// Check fetches the target and matches scripts, iframes and pixels against
// known social media endpoints.
func (c *SocialChecker) Check(ctx context.Context, target scan.Target) scan.Result {
	page, err := fetchPage(ctx, c.Client, target, c.UserAgent)
	if err != nil {
		return scan.ErrorResult(scan.CheckSocial, err)
	}

	found := FindSocialEmbeds(page)
	switch {
	case len(found.Platforms) > 0:
		result := scan.Fail(scan.CheckSocial, "social media tracking or embeds found: %s", strings.Join(found.Platforms, ", ")).
			WithDetail("platforms", found.Platforms).
			WithDetail("urls", found.URLs)
		if len(found.PrivacyEnhanced) > 0 {
			result = result.WithDetail("privacy_enhanced", found.PrivacyEnhanced)
		}
		return result
	case len(found.PrivacyEnhanced) > 0:
		return scan.Info(scan.CheckSocial, "only privacy-enhanced embeds found").
			WithDetail("privacy_enhanced", found.PrivacyEnhanced)
	}
	return scan.Pass(scan.CheckSocial, "no social media tracking or embeds found")
}

// Name returns the name of this checker
func (c *SocialChecker) Name() scan.CheckName {
	return scan.CheckSocial
}

// FindSocialEmbeds classifies the scripts, iframes and images of page.
func FindSocialEmbeds(page *Page) SocialFindings {
	platforms, urls, enhanced := stringSet{}, stringSet{}, stringSet{}

	candidates := make([]string, 0, len(page.Scripts)+len(page.Iframes)+len(page.Images))
	candidates = append(candidates, page.Scripts...)
	candidates = append(candidates, page.Iframes...)
	candidates = append(candidates, page.Images...)

	for _, raw := range candidates {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		host := strings.ToLower(u.Hostname())
		if _, ok := matchDomain(host, privacyEnhancedDomains); ok {
			enhanced.add(raw)
			continue
		}
		for _, rule := range socialRules {
			if !hostMatches(host, rule.domain) {
				continue
			}
			if rule.pathPrefix != "" && !strings.HasPrefix(u.Path, rule.pathPrefix) {
				continue
			}
			platforms.add(rule.platform)
			urls.add(raw)
			break
		}
	}

	return SocialFindings{
		Platforms:       platforms.sorted(),
		URLs:            urls.sorted(),
		PrivacyEnhanced: enhanced.sorted(),
	}
}
