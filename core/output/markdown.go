package output

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownFormatter renders reports as GitHub-flavored markdown
type MarkdownFormatter struct {
	opts Options
}

// Format returns the format type
func (f *MarkdownFormatter) Format() Format {
	return FormatMarkdown
}

// Render writes the report
func (f *MarkdownFormatter) Render(w io.Writer, report *Report) error {
	var b strings.Builder

	title := strings.ReplaceAll(string(report.Operation), "_", " ")
	if report.Item != "" {
		title += ": " + report.Item
	}
	fmt.Fprintf(&b, "## %s\n\n", title)
	if len(report.Forbidden) > 0 {
		fmt.Fprintf(&b, "_Forbidden: %s_\n\n", strings.Join(report.Forbidden, ", "))
	}

	switch report.Operation {
	case OpInspect:
		st := report.Catalog.Stats
		b.WriteString("| Metric | Value |\n|---|---:|\n")
		fmt.Fprintf(&b, "| atomic items | %d |\n", st.Atomic)
		fmt.Fprintf(&b, "| compound items | %d |\n", st.Compound)
		fmt.Fprintf(&b, "| candidate recipes | %d |\n", st.Recipes)
		fmt.Fprintf(&b, "| shadowed by atomic | %d |\n", st.Shadowed)
		fmt.Fprintf(&b, "| flagged entries | %d |\n", st.Issues)
		for _, issue := range report.Catalog.Issues {
			fmt.Fprintf(&b, "\n- %s", issue)
		}

	case OpGrocery:
		f.lines(&b, report.GroceryLines)
		for _, item := range report.Grocery.Unreachable {
			fmt.Fprintf(&b, "\n- %s cannot be produced\n", item)
		}
		fmt.Fprintf(&b, "\n**Total: %s**\n", report.Cost.StringFixed(f.opts.Places))

	default:
		if !report.Reachable {
			fmt.Fprintf(&b, "**%s is unreachable.**\n", report.Item)
			break
		}
		switch report.Operation {
		case OpCheapest:
			f.lines(&b, report.Lines)
		case OpAll:
			b.WriteString("| # | Ingredients | Cost |\n|---:|---|---:|\n")
			for i, alt := range report.Alternatives {
				cost := alt.Cost.StringFixed(f.opts.Places)
				if alt.Cheapest {
					cost = "**" + cost + "**"
				}
				fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, describe(alt.Flat), cost)
			}
		}
		fmt.Fprintf(&b, "\n**Lowest cost: %s**\n", report.Cost.StringFixed(f.opts.Places))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *MarkdownFormatter) lines(b *strings.Builder, lines []Line) {
	b.WriteString("| Item | Qty | Unit cost | Cost |\n|---|---:|---:|---:|\n")
	for _, l := range lines {
		fmt.Fprintf(b, "| %s | %d | %s | %s |\n", l.Item, l.Quantity,
			l.UnitCost.StringFixed(f.opts.Places), l.Cost.StringFixed(f.opts.Places))
	}
}
