package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/khanhnv2901/webcomply/internal/domain/scan"
)

func TestCheckCatalogCoversEveryCheck(t *testing.T) {
	catalog := getCheckCatalog()
	names := scan.AllCheckNames()
	if len(catalog) != len(names) {
		t.Fatalf("expected %d catalog entries, got %d", len(names), len(catalog))
	}

	flags := make(map[string]bool)
	for i, spec := range catalog {
		if spec.Name != names[i] {
			t.Errorf("position %d: expected %s, got %s", i, names[i], spec.Name)
		}
		if spec.Flag == "" || spec.Description == "" {
			t.Errorf("%s: flag and description are required", spec.Name)
		}
		if flags[spec.Flag] {
			t.Errorf("%s: duplicate flag %s", spec.Name, spec.Flag)
		}
		flags[spec.Flag] = true
	}
}

func TestCheckCatalogDefaultsMatchScanFlags(t *testing.T) {
	scanCmd := newScanCmd()
	for _, spec := range getCheckCatalog() {
		long := strings.TrimPrefix(strings.Fields(spec.Flag)[1], "--")
		long = strings.TrimSuffix(long, "[=months]")
		flag := scanCmd.Flags().Lookup(long)
		if flag == nil {
			// nfz is a root flag.
			if spec.Name != scan.CheckNFZ {
				t.Errorf("%s: scan has no --%s flag", spec.Name, long)
			}
			continue
		}
		enabled := flag.DefValue == "true"
		if enabled != spec.Default {
			t.Errorf("%s: catalog default %v, flag default %s", spec.Name, spec.Default, flag.DefValue)
		}
	}
}

func TestGetCheckCatalogReturnsCopy(t *testing.T) {
	catalog := getCheckCatalog()
	catalog[0].Description = "changed"
	if checkCatalog[0].Description == "changed" {
		t.Fatal("expected a copy of the catalog")
	}
}

func TestChecksCommand(t *testing.T) {
	stdout, _, code := executeCommand(t, "checks")
	if code != ExitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	for _, name := range scan.AllCheckNames() {
		if !strings.Contains(stdout, name.String()) {
			t.Errorf("expected %s in catalog output:\n%s", name, stdout)
		}
	}

	stdout, _, code = executeCommand(t, "checks", "--output", "json")
	if code != ExitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	var decoded []CheckSpec
	if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
		t.Fatalf("expected JSON catalog: %v", err)
	}
	if len(decoded) != len(checkCatalog) {
		t.Fatalf("expected %d entries, got %d", len(checkCatalog), len(decoded))
	}
}

func TestChecksCommand_Markdown(t *testing.T) {
	stdout, _, code := executeCommand(t, "checks", "--output", "markdown")
	if code != ExitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout, "# Available Checks") {
		t.Fatalf("expected markdown heading:\n%s", stdout)
	}
	for _, spec := range checkCatalog {
		if !strings.Contains(stdout, spec.Description) {
			t.Errorf("expected %s description in markdown catalog", spec.Name)
		}
	}
}
