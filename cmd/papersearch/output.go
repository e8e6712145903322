package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// maxTitleWidth bounds the title column in display cells.
const maxTitleWidth = 60

// columnGap separates table columns.
const columnGap = "  "

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to at most width display cells.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

// writeTable renders an aligned plain-text table. Widths are measured in
// display cells so CJK titles line up.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if cw := runewidth.StringWidth(row[i]); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range widths {
			content := ""
			if i < len(cells) {
				content = cells[i]
			}
			if i == len(widths)-1 {
				sb.WriteString(content)
				break
			}
			sb.WriteString(runewidth.FillRight(content, widths[i]))
			sb.WriteString(columnGap)
		}
		sb.WriteString("\n")
	}

	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
