package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

const (
	jsonPrefix = ""
	jsonIndent = "  "
	yamlIndent = 2
)

// reportPrinter renders a sealed report. It is the orchestrator's Reporter
// for the scan command.
type reportPrinter struct {
	out    io.Writer
	mode   outputMode
	format string
}

func newReportPrinter(out io.Writer, mode outputMode, format string) *reportPrinter {
	return &reportPrinter{out: out, mode: mode, format: format}
}

// Report writes report in the configured format. Silent mode writes nothing.
func (p *reportPrinter) Report(report *scan.Report) error {
	if p.mode == modeSilent {
		return nil
	}
	switch p.format {
	case outputJSON:
		data, err := json.MarshalIndent(report, jsonPrefix, jsonIndent)
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = fmt.Fprintln(p.out, string(data))
		return err
	case outputYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(yamlIndent)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	case outputMarkdown:
		return writeMarkdownReport(p.out, report, p.mode == modeVerbose)
	default:
		return p.printText(report)
	}
}

func (p *reportPrinter) printText(report *scan.Report) error {
	fmt.Fprintf(p.out, "%s %s\n", colorBold("Compliance report for"), report.Target().String())
	if p.mode == modeVerbose {
		fmt.Fprintf(p.out, "Scan ID: %s\n", report.ID())
		fmt.Fprintf(p.out, "Started: %s\n", report.StartedAt().UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(p.out)

	tw := tabwriter.NewWriter(p.out, 2, 4, 2, ' ', 0)
	for _, r := range report.Results() {
		label := formatStatusWithColor(strings.ToUpper(r.Status.String()))
		if p.mode == modeVerbose {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", label, r.Name, formatDuration(r.Duration), r.Message)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", label, r.Name, r.Message)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if p.mode == modeVerbose {
		for _, r := range report.Results() {
			printDetails(p.out, r)
		}
	}

	fmt.Fprintln(p.out)
	_, err := fmt.Fprintln(p.out, summaryLine(report))
	return err
}

func printDetails(w io.Writer, r scan.Result) {
	if len(r.Details) == 0 {
		return
	}
	keys := make([]string, 0, len(r.Details))
	for k := range r.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "\n%s\n", colorInfo(r.Name.String()))
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, formatDetail(r.Details[k]))
	}
}

func formatDetail(v any) string {
	switch val := v.(type) {
	case []string:
		if len(val) == 0 {
			return "-"
		}
		return strings.Join(val, ", ")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

func summaryLine(report *scan.Report) string {
	counts := report.Counts()
	return fmt.Sprintf("%d checks: %s pass, %s fail, %s info, %s error in %s",
		report.Len(),
		colorSuccess(fmt.Sprintf("%d", counts[scan.StatusPass])),
		colorError(fmt.Sprintf("%d", counts[scan.StatusFail])),
		colorInfo(fmt.Sprintf("%d", counts[scan.StatusInfo])),
		colorError(fmt.Sprintf("%d", counts[scan.StatusError])),
		formatDuration(report.Elapsed()),
	)
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	return d.Round(time.Millisecond).String()
}
