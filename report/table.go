package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/verdictlabs/verdict-go/eval"
)

// WriteTable renders the run's per-scorer summaries as a markdown table,
// preceded by a one-line run header. Means are shown with three decimals.
func WriteTable[I, R any](w io.Writer, rr *eval.RunResult[I, R]) error {
	header := fmt.Sprintf("Run %q: %d examples, %d failures, %.1fs",
		rr.Label, len(rr.Records), rr.FailureCount(), rr.Elapsed.Seconds())
	if rr.Unprocessed > 0 {
		header += fmt.Sprintf(" (%d unprocessed)", rr.Unprocessed)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	table := newSummaryTable(w)
	summaries := Summarize(rr)
	for _, name := range scorerNames(summaries) {
		s := summaries[name]
		row := []string{
			name,
			fmt.Sprintf("%.3f", s.Mean),
			fmt.Sprintf("%d", s.Scored),
			fmt.Sprintf("%d", s.Failures),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func newSummaryTable(w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 80,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader([]string{"Scorer", "Mean", "Scored", "Failures"}),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
