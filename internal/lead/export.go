package lead

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an export encoding for a lead list.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses an export format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (expected csv, json or yaml)", s)
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// CSVHeader is the column order of CSV exports.
var CSVHeader = []string{"Name", "Role", "Company", "Email", "Phone", "Website", "Source", "Confidence"}

// Row returns the lead's fields in CSVHeader order.
func (l Lead) Row() []string {
	return []string{l.Name, l.Role, l.Company, l.Email, l.Phone, l.Website, l.Source, string(l.Confidence)}
}

// WriteCSV writes a header line followed by one line per lead.
// Every data field is double-quoted, with embedded quotes doubled, and lines
// are joined by "\n" with no trailing newline. encoding/csv only quotes when
// needed, so the lines are built by hand.
func WriteCSV(w io.Writer, leads []Lead) error {
	lines := make([]string, 0, len(leads)+1)
	lines = append(lines, strings.Join(CSVHeader, ","))
	for _, l := range leads {
		row := l.Row()
		for i, field := range row {
			row[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(row, ","))
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("csv: write: %w", err)
	}
	return nil
}

// Encode writes leads to w in the given format.
func Encode(w io.Writer, format Format, leads []Lead) error {
	if leads == nil {
		leads = []Lead{}
	}
	switch format {
	case FormatCSV:
		return WriteCSV(w, leads)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(leads); err != nil {
			return fmt.Errorf("json: encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(leads); err != nil {
			return fmt.Errorf("yaml: encode: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown export format %q", format)
}

// ExportFileName returns the default export file name for a query,
// e.g. "leads_Plumbing_companies_in_Lyon,_France.csv". Runs of whitespace
// become "_", as do path separators and characters Windows rejects, so the
// result is always a single file in the current directory.
func ExportFileName(query string, format Format) string {
	name := whitespaceRun.ReplaceAllString(query, "_")
	name = unsafeFileChars.ReplaceAllString(name, "_")
	return "leads_" + name + "." + format.Ext()
}

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	unsafeFileChars = regexp.MustCompile(`[/\\:*?"<>|\x00-\x1f]`)
)
