package plaintext

import (
	"regexp"
	"strings"

	latextree "github.com/texkit/go-latextree"
)

// ColumnSpec describes one column of a tabular environment.
type ColumnSpec struct {
	BorderLeft  bool   // column has a left border
	BorderRight bool   // column has a right border
	Align       string // column alignment: c, l or r
}

var colspecSpace = regexp.MustCompile(`\s+`)

// ColumnSpecs parses the column layout argument of a tabular environment.
// todo: add support for repeated syntax *{x}{...}
// todo: if not support, at least correctly handle @{} and !{}
func ColumnSpecs(raw string) []ColumnSpec {
	// spaces carry no meaning in a column spec
	runes := []rune(colspecSpace.ReplaceAllString(raw, ""))

	var specs []ColumnSpec
	for pos, char := range runes {
		if char != 'c' && char != 'l' && char != 'r' {
			continue
		}

		specs = append(specs, ColumnSpec{
			BorderLeft:  pos > 0 && runes[pos-1] == '|',
			BorderRight: pos+1 < len(runes) && runes[pos+1] == '|',
			Align:       string(char),
		})
	}

	return specs
}

type tableRow struct {
	cells []string
	rule  bool
}

// tableText assembles a tabular or array environment: rows split at \\,
// cells at &, every cell trimmed and padded to its column width per the
// column spec alignment, cells joined with two spaces. Horizontal lines
// become dash rules of the full table width.
func tableText(e *latextree.EnvironmentNode, r *Renderer) (string, error) {
	colspec, err := r.ArgText(e.Args, 1)
	if err != nil {
		return "", err
	}
	cols := ColumnSpecs(colspec)

	rows, err := tableRows(e.Body, r)
	if err != nil {
		return "", err
	}

	var widths []int
	for _, row := range rows {
		for i, cell := range row.cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	total := 0
	for i, w := range widths {
		if i > 0 {
			total += 2
		}
		total += w
	}

	var lines []string
	for _, row := range rows {
		if row.rule {
			lines = append(lines, strings.Repeat("-", total))
			continue
		}

		padded := make([]string, len(row.cells))
		for i, cell := range row.cells {
			padded[i] = pad(cell, widths[i], alignOf(cols, i))
		}

		lines = append(lines, strings.TrimRight(strings.Join(padded, "  "), " "))
	}

	return strings.Join(lines, "\n"), nil
}

// tableRows walks the environment body splitting it into rows and cells.
func tableRows(body latextree.NodeList, r *Renderer) ([]tableRow, error) {
	var rows []tableRow
	var cells []string
	var cell latextree.NodeList

	flushCell := func() error {
		out, err := r.RenderList(cell)
		if err != nil {
			return err
		}

		cells = append(cells, strings.TrimSpace(out))
		cell = nil
		return nil
	}

	flushRow := func() error {
		if err := flushCell(); err != nil {
			return err
		}

		// the whitespace before \end or between rules comes out as a
		// single empty cell, drop it
		if len(cells) == 1 && cells[0] == "" {
			cells = nil
			return nil
		}

		rows = append(rows, tableRow{cells: cells})
		cells = nil
		return nil
	}

	for _, n := range body {
		switch v := n.(type) {
		case *latextree.MacroNode:
			if v.Name == `\` {
				if err := flushRow(); err != nil {
					return nil, err
				}
				continue
			}
			if v.Name == "hline" || v.Name == "cline" {
				if err := flushRow(); err != nil {
					return nil, err
				}
				rows = append(rows, tableRow{rule: true})
				continue
			}
		case *latextree.SpecialsNode:
			if v.Text == "&" {
				if err := flushCell(); err != nil {
					return nil, err
				}
				continue
			}
		}

		cell = append(cell, n)
	}

	if err := flushRow(); err != nil {
		return nil, err
	}

	return rows, nil
}

func alignOf(cols []ColumnSpec, i int) string {
	if i < len(cols) {
		return cols[i].Align
	}

	return "l"
}

func pad(cell string, width int, align string) string {
	gap := width - len([]rune(cell))
	if gap <= 0 {
		return cell
	}

	switch align {
	case "r":
		return strings.Repeat(" ", gap) + cell
	case "c":
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	default:
		return cell + strings.Repeat(" ", gap)
	}
}
