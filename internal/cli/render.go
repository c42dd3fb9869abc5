package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/farelock/pkg/errors"
	"github.com/matzehuels/farelock/pkg/query"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// maxKeys limits the document keys listed per table row.
const maxKeys = 3

func validateFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want %s or %s)", format, FormatTable, FormatJSON)
}

// renderJSON writes the host-facing response as indented JSON.
func renderJSON(w io.Writer, res *query.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Response)
}

// renderTable writes a summary header followed by one row per dependency.
func renderTable(w io.Writer, res *query.Result) {
	doc := documentName(res.Kind)

	fmt.Fprintln(w, StyleTitle.Render(res.Kind))
	if query.IsProjectKind(res.Kind) {
		printKeyValue(w, "Project", orNone(res.Location))
	} else {
		printKeyValue(w, "Registry", res.Location)
	}
	primary := iconNone
	if res.Primary != nil {
		primary = res.Primary.String()
		if res.PrimaryMetadata != nil {
			primary += "  " + StyleSuccess.Render(doc+" "+iconSuccess)
		}
	}
	printKeyValue(w, "Primary", primary)
	fmt.Fprintln(w)

	if len(res.Entries) == 0 {
		printInfo(w, "No installed dependencies")
		return
	}

	rows := make([][]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		rows = append(rows, []string{e.Package.Name, e.Package.Version, summarize(e.Metadata)})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Package", "Version", strings.ToUpper(doc[:1])+doc[1:]).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row < len(res.Entries) && res.Entries[row].Metadata != nil {
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			if col == 2 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())

	printStats(w,
		fmt.Sprintf("%d packages", len(res.Entries)),
		fmt.Sprintf("%d with %s", res.WithMetadata(), doc),
	)
}

// documentName returns "lock" or "config" for a query kind.
func documentName(kind string) string {
	if strings.HasSuffix(kind, "configs") {
		return "config"
	}
	return "lock"
}

// summarize lists the first top-level keys of a metadata document.
func summarize(doc map[string]any) string {
	if doc == nil {
		return iconNone
	}
	if len(doc) == 0 {
		return iconSuccess
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	more := ""
	if len(keys) > maxKeys {
		more = fmt.Sprintf(" +%d", len(keys)-maxKeys)
		keys = keys[:maxKeys]
	}
	return iconSuccess + " " + strings.Join(keys, ", ") + more
}

func orNone(s string) string {
	if s == "" {
		return iconNone
	}
	return s
}
