package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/tsukumogami/leadgenius/internal/lead"
	"github.com/tsukumogami/leadgenius/internal/llm"
)

// formatTable selects the human-readable table instead of an export format.
const formatTable = "table"

// maxCellWidth truncates long table cells so rows stay on one line.
const maxCellWidth = 40

// parseOutputFormat accepts "table" or any lead export format.
func parseOutputFormat(s string) (string, lead.Format, error) {
	if s == "" || strings.EqualFold(s, formatTable) {
		return formatTable, "", nil
	}
	f, err := lead.ParseFormat(s)
	if err != nil {
		return "", "", fmt.Errorf("unknown output format %q (expected table, csv, json or yaml)", s)
	}
	return string(f), f, nil
}

// formatFromPath infers an export format from a file extension, falling
// back to CSV.
func formatFromPath(path string) lead.Format {
	if f, err := lead.ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return lead.FormatCSV
}

// renderTable writes leads as aligned columns.
func renderTable(w io.Writer, leads []lead.Lead) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tROLE\tCOMPANY\tEMAIL\tPHONE\tWEBSITE\tCONFIDENCE")
	for i, l := range leads {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			truncate(l.Name), truncate(l.Role), truncate(l.Company),
			truncate(l.Email), truncate(l.Phone), truncate(l.Website),
			l.Confidence,
		)
	}
	return tw.Flush()
}

// renderSources lists grounding citations below the results.
func renderSources(w io.Writer, sources []llm.Source) {
	if len(sources) == 0 {
		fmt.Fprintln(w, "\nNo grounding sources returned.")
		return
	}
	fmt.Fprintf(w, "\nSources (%d):\n", len(sources))
	for _, s := range sources {
		if s.Title != "" {
			fmt.Fprintf(w, "  - %s (%s)\n", s.Title, s.URI)
		} else {
			fmt.Fprintf(w, "  - %s\n", s.URI)
		}
	}
}

// writeLeadsFile encodes leads into path, creating parent directories.
func writeLeadsFile(path string, format lead.Format, leads []lead.Lead) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := lead.Encode(f, format, leads); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxCellWidth {
		return s
	}
	r := []rune(s)
	return string(r[:maxCellWidth-3]) + "..."
}
