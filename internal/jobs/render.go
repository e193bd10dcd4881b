package jobs

import (
	"fmt"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"zappem.net/pub/kinematics/panda"
)

// Render lays results out as a table, one row per solution. Markdown
// selects GitHub flavoured output over a terminal table.
func Render(rs []Result, markdown bool) string {
	w := table.NewWriter()
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	w.SetStyle(style)
	w.AppendHeader(table.Row{"job", "case", "q1", "q2", "q3", "q4", "q5", "q6", "q7"})
	cfgs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for n := 3; n <= 9; n++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	w.SetColumnConfigs(cfgs)

	valid := 0
	for _, r := range rs {
		if r.Err != nil {
			w.AppendRow(table.Row{r.Job.String(), "error: " + r.Err.Error()})
			continue
		}
		for k, q := range r.Solutions {
			c := panda.Case(k)
			if r.Job.Mode == ModeCC {
				c = r.Case
			}
			row := table.Row{r.Job.String(), c.String()}
			for _, a := range q {
				row = append(row, formatAngle(a))
			}
			w.AppendRow(row)
		}
		valid += r.Valid()
	}
	w.AppendFooter(table.Row{fmt.Sprintf("%d jobs", len(rs)), fmt.Sprintf("%d valid", valid)})

	if markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

func formatAngle(a float64) string {
	if math.IsNaN(a) {
		return "-"
	}
	return fmt.Sprintf("%.6f", a)
}
