// Package static provides non-interactive terminal output components.
//
// This package contains components for rendering formatted output
// that does not require user interaction, such as tables and
// formatted text displays.
package static

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/kvview/internal/format"
	"github.com/raphi011/kvview/internal/kvcache"
	"github.com/raphi011/kvview/internal/ui/styles"
)

// EntryHeaders are the columns of an entry table.
var EntryHeaders = []string{"KEY", "EXPIRES", "METADATA"}

// EntryTableRow formats an entry as a table row. The key is shown relative
// to prefix; metadata is shown as compact JSON.
func EntryTableRow(e kvcache.Entry, prefix string, now time.Time) []string {
	key := format.RelativeKey(e.Key, prefix)
	if key == "" {
		key = e.Key
	}

	expires := format.Expiration(e, now)
	if expires == "Expired" {
		expires = styles.WarningStyle.Render(expires)
	}

	meta := ""
	if e.Metadata != nil {
		meta = truncate(e.Metadata.String(), 60)
	}

	return []string{key, expires, meta}
}

// RenderEntries renders entries as a table, or a muted note when empty.
func RenderEntries(entries []kvcache.Entry, prefix string, now time.Time) string {
	if len(entries) == 0 {
		return styles.MutedStyle.Render("No keys") + "\n"
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = EntryTableRow(e, prefix, now)
	}
	return RenderTable(EntryHeaders, rows)
}

// QueryHeaders are the columns of the saved query table.
var QueryHeaders = []string{"TITLE", "NAMESPACE", "PREFIX"}

// QueryTableRow formats a saved query as a table row.
func QueryTableRow(q kvcache.Query) []string {
	return []string{q.Title, q.Namespace.String(), q.Prefix}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}
