package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

var statusBadges = map[scan.Status]string{
	scan.StatusPass:  "✅ pass",
	scan.StatusFail:  "❌ fail",
	scan.StatusInfo:  "ℹ️ info",
	scan.StatusError: "⚠️ error",
}

// writeMarkdownReport renders report as GitHub-flavored markdown for sharing
// in tickets and pull requests.
func writeMarkdownReport(w io.Writer, report *scan.Report, verbose bool) error {
	md := markdown.NewMarkdown(w)

	md.H1("Compliance Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.Target().String() + "`"},
			{"Scan ID", report.ID()},
			{"Started", report.StartedAt().UTC().Format(time.RFC3339)},
			{"Duration", formatDuration(report.Elapsed())},
		},
	})
	md.PlainText("")

	counts := report.Counts()
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{statusBadges[scan.StatusPass], strconv.Itoa(counts[scan.StatusPass])},
			{statusBadges[scan.StatusFail], strconv.Itoa(counts[scan.StatusFail])},
			{statusBadges[scan.StatusInfo], strconv.Itoa(counts[scan.StatusInfo])},
			{statusBadges[scan.StatusError], strconv.Itoa(counts[scan.StatusError])},
			{"**Total**", "**" + strconv.Itoa(report.Len()) + "**"},
		},
	})
	md.PlainText("")

	switch {
	case counts[scan.StatusFail] > 0:
		md.Cautionf("%d check(s) found compliance issues.", counts[scan.StatusFail])
	case counts[scan.StatusError] > 0:
		md.Warningf("%d check(s) could not complete.", counts[scan.StatusError])
	default:
		md.Tip("No compliance issues detected.")
	}
	md.PlainText("")

	md.H2("Results")
	md.PlainText("")
	rows := make([][]string, 0, report.Len())
	for _, r := range report.Results() {
		rows = append(rows, []string{
			r.Name.String(),
			statusBadges[r.Status],
			escapeCell(r.Message),
			formatDuration(r.Duration),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Check", "Status", "Message", "Duration"},
		Rows:   rows,
	})
	md.PlainText("")

	if verbose {
		writeMarkdownDetails(md, report.Results())
	}

	return md.Build()
}

func writeMarkdownDetails(md *markdown.Markdown, results []scan.Result) {
	for _, r := range results {
		if len(r.Details) == 0 {
			continue
		}
		keys := make([]string, 0, len(r.Details))
		for k := range r.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		items := make([]string, 0, len(keys))
		for _, k := range keys {
			items = append(items, fmt.Sprintf("`%s`: %s", k, formatDetail(r.Details[k])))
		}
		md.H3(r.Name.String())
		md.PlainText("")
		md.BulletList(items...)
		md.PlainText("")
	}
}

// writeMarkdownCatalog renders the check catalog as a markdown table.
func writeMarkdownCatalog(w io.Writer, catalog []CheckSpec) error {
	md := markdown.NewMarkdown(w)
	md.H1("Available Checks")
	md.PlainText("")

	rows := make([][]string, 0, len(catalog))
	for _, spec := range catalog {
		enabled := "off"
		if spec.Default {
			enabled = "on"
		}
		rows = append(rows, []string{spec.Name.String(), "`" + spec.Flag + "`", enabled, spec.Category, spec.Description})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Check", "Flag", "Default", "Category", "Description"},
		Rows:   rows,
	})
	return md.Build()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
