package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/John-Robertt/kdorg/internal/app/run"
	"github.com/John-Robertt/kdorg/internal/config"
	"github.com/John-Robertt/kdorg/internal/domain"
)

var _ run.Observer = (*moveLogger)(nil)

// moveLogger 把每个待移动的主资源打印为一行 "Move <from> to <to>"。
// dry-run 与源文件缺失时同样打印。
type moveLogger struct {
	w io.Writer
}

func newMoveLogger(w io.Writer) *moveLogger { return &moveLogger{w: w} }

func (m *moveLogger) OnStart(config.EffectiveConfig) {}

func (m *moveLogger) OnMove(mv domain.MovePlan) {
	fmt.Fprintf(m.w, "Move %s to %s\n", mv.SrcAbs, mv.DstAbs)
}

func (m *moveLogger) OnRef(domain.RefResult) {}

func (m *moveLogger) OnDone(domain.RunReport) {}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderSummary 渲染逐引用结果表与一行计数摘要（只在交互终端的 stderr 输出）。
func renderSummary(rr domain.RunReport) string {
	headers := []string{"#", "producer", "kind", "category", "before", "after", "status"}
	aligns := []columnAlignment{alignRight}

	rows := make([][]string, 0, len(rr.Items))
	for i, it := range rr.Items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			it.Producer,
			orDash(string(it.Kind)),
			orDash(string(it.Category)),
			orDash(truncate(it.Before, 48)),
			orDash(truncate(it.After, 48)),
			it.Status,
		})
	}

	var b strings.Builder
	mode := "apply"
	if rr.DryRun {
		mode = "dry-run"
	}
	fmt.Fprintf(&b, "kdorg (%s) %s\n", mode, rr.Project)
	if len(rows) > 0 {
		b.WriteString(renderTable(headers, rows, aligns))
		b.WriteByte('\n')
	}

	s := rr.Summary
	fmt.Fprintf(&b, "完成：moved=%d planned=%d unchanged=%d missing=%d rewritten=%d excluded=%d skipped=%d",
		s.Moved, s.Planned, s.Unchanged, s.Missing, s.Rewritten, s.Excluded, s.Skipped,
	)
	if s.RolledBack > 0 {
		fmt.Fprintf(&b, " rolled_back=%d", s.RolledBack)
	}
	fmt.Fprintf(&b, " (%s)", formatShortDuration(rr.FinishedAt.Sub(rr.StartedAt)))
	if rr.Failed() {
		fmt.Fprintf(&b, "\n失败：%s %s", rr.ErrorCode, truncate(rr.ErrorMsg, 160))
	}
	return b.String()
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// truncate 截断过长的路径，保留末尾（文件名更有辨识度）。
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[len(r)-max:])
	}
	return "..." + string(r[len(r)-(max-3):])
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
