package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

// CheckSpec describes one compliance check and the flag that enables it.
type CheckSpec struct {
	Name        scan.CheckName `json:"name" yaml:"name"`
	Flag        string         `json:"flag" yaml:"flag"`
	Category    string         `json:"category" yaml:"category"`
	Default     bool           `json:"enabled_by_default" yaml:"enabled_by_default"`
	Description string         `json:"description" yaml:"description"`
}

// checkCatalog lists every check in registration order.
var checkCatalog = []CheckSpec{
	{Name: scan.CheckNFZ, Flag: "-z, --nfz", Category: "Legal", Description: "NF Z67-147 procedure for a legally admissible website report"},
	{Name: scan.CheckSSL, Flag: "-s, --ssl", Category: "Transport Layer Security (TLS)", Default: true, Description: "Certificate is trusted, matches the host and is not about to expire"},
	{Name: scan.CheckCookies, Flag: "-k, --cookies[=months]", Category: "Cookies", Description: "Cookie lifetimes stay within the month threshold (13 by default)"},
	{Name: scan.CheckFonts, Flag: "-f, --fonts", Category: "Third-party requests", Default: true, Description: "No fonts are loaded from third-party hosts"},
	{Name: scan.CheckPrefetching, Flag: "-p, --prefetching", Category: "Third-party requests", Description: "No DNS prefetch or preconnect hints to third-party hosts"},
	{Name: scan.CheckAnalytics, Flag: "-a, --analytics", Category: "Tracking", Description: "No Google Analytics or Tag Manager; Matomo/Piwik is reported for review"},
	{Name: scan.CheckCDN, Flag: "-c, --cdn", Category: "Third-party requests", Description: "No assets served from public Content Delivery Networks"},
	{Name: scan.CheckSocial, Flag: "-t, --tracking", Category: "Tracking", Description: "No social media tracking scripts, pixels or embeds"},
}

func getCheckCatalog() []CheckSpec {
	out := make([]CheckSpec, len(checkCatalog))
	copy(out, checkCatalog)
	return out
}

func newChecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the available compliance checks",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx := getAppContext(cmd)
			if appCtx.Mode == modeSilent {
				return nil
			}
			return printCatalog(cmd, appCtx.Config.Scan.Output, getCheckCatalog())
		},
	}
}

func printCatalog(cmd *cobra.Command, format string, catalog []CheckSpec) error {
	out := cmd.OutOrStdout()
	switch format {
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent(jsonPrefix, jsonIndent)
		return enc.Encode(catalog)
	case outputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(yamlIndent)
		defer enc.Close()
		return enc.Encode(catalog)
	case outputMarkdown:
		return writeMarkdownCatalog(out, catalog)
	}

	tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECK\tFLAG\tDEFAULT\tCATEGORY\tDESCRIPTION")
	for _, spec := range catalog {
		enabled := "off"
		if spec.Default {
			enabled = colorSuccess("on")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", spec.Name, spec.Flag, enabled, spec.Category, spec.Description)
	}
	return tw.Flush()
}
