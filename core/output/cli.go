package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"recipe-cost/core/types"
	"recipe-cost/core/ui"
)

// CLIFormatter renders reports as styled terminal text
type CLIFormatter struct {
	opts Options
}

// Format returns the format type
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render writes the report
func (f *CLIFormatter) Render(w io.Writer, report *Report) error {
	out := ui.NewWriter(w, f.opts.NoColor)

	if len(report.Forbidden) > 0 {
		out.Println("%s", out.Dim("forbidden: "+strings.Join(report.Forbidden, ", ")))
	}

	switch report.Operation {
	case OpLowestCost:
		if !f.reachable(out, report) {
			return nil
		}
		s := out.NewCostSummary("Lowest cost of " + report.Item)
		s.Total = f.money(*report.Cost)
		s.Render()

	case OpCheapest:
		if !f.reachable(out, report) {
			return nil
		}
		out.Header("Cheapest recipe for " + report.Item)
		f.lines(out, report.Lines)
		s := out.NewCostSummary("Total")
		s.Total = f.money(*report.Cost)
		if report.Choice != nil && *report.Choice >= 0 {
			s.Lines = append(s.Lines, fmt.Sprintf("uses candidate recipe #%d", *report.Choice+1))
		}
		s.Render()

	case OpAll:
		if !f.reachable(out, report) {
			return nil
		}
		out.Header("Flat recipes for " + report.Item)
		table := out.NewTable("#", "INGREDIENTS", "COST", "").AlignRight(0, 2)
		for i, alt := range report.Alternatives {
			mark := ""
			if alt.Cheapest {
				mark = "cheapest"
			}
			table.AddRow(strconv.Itoa(i+1), describe(alt.Flat), f.money(alt.Cost), mark)
		}
		table.Render()
		if shown := len(report.Alternatives); shown < report.Enumerated {
			out.Info("showing %d of %d flat recipes", shown, report.Enumerated)
		}

	case OpGrocery:
		out.Header("Grocery list")
		orders := out.NewTable("ORDER", "QTY", "UNIT COST", "COST").AlignRight(1, 2, 3)
		for _, line := range report.Grocery.Lines {
			unit, cost := "unreachable", "-"
			if line.Reachable {
				unit, cost = f.money(line.UnitCost), f.money(line.Cost)
			}
			orders.AddRow(line.Order.Item, strconv.FormatInt(line.Order.Quantity, 10), unit, cost)
		}
		orders.Render()
		out.Println("")
		f.lines(out, report.GroceryLines)
		for _, item := range report.Grocery.Unreachable {
			out.Warning("%s cannot be produced", item)
		}
		s := out.NewCostSummary("Total")
		s.Total = f.money(*report.Cost)
		s.Render()

	case OpInspect:
		st := report.Catalog.Stats
		out.Header("Catalog")
		table := out.NewTable("METRIC", "VALUE").AlignRight(1)
		table.AddRow("atomic items", strconv.Itoa(st.Atomic))
		table.AddRow("compound items", strconv.Itoa(st.Compound))
		table.AddRow("candidate recipes", strconv.Itoa(st.Recipes))
		table.AddRow("shadowed by atomic", strconv.Itoa(st.Shadowed))
		table.AddRow("flagged entries", strconv.Itoa(st.Issues))
		if fp := report.Metadata.Fingerprint; fp != "" {
			table.AddRow("fingerprint", fp)
		}
		table.Render()
		for _, issue := range report.Catalog.Issues {
			out.Warning("%s", issue)
		}

	default:
		return fmt.Errorf("cli formatter: unsupported operation %q", report.Operation)
	}
	return nil
}

func (f *CLIFormatter) reachable(out *ui.Writer, report *Report) bool {
	if report.Reachable {
		return true
	}
	out.Error("%s is unreachable", report.Item)
	return false
}

func (f *CLIFormatter) lines(out *ui.Writer, lines []Line) {
	table := out.NewTable("ITEM", "QTY", "UNIT COST", "COST").AlignRight(1, 2, 3)
	for _, l := range lines {
		table.AddRow(l.Item, strconv.FormatInt(l.Quantity, 10), f.money(l.UnitCost), f.money(l.Cost))
	}
	table.Render()
}

func (f *CLIFormatter) money(d decimal.Decimal) string {
	return d.StringFixed(f.opts.Places)
}

// describe renders a flat recipe as "2 milk, 1 sugar"
func describe(flat types.FlatRecipe) string {
	parts := make([]string, 0, len(flat))
	for _, item := range flat.Items() {
		parts = append(parts, fmt.Sprintf("%d %s", flat[item], item))
	}
	return strings.Join(parts, ", ")
}
