package domain

import "time"

const (
	// RefStatusMoved：apply 模式下文件已移动到分类目录。
	RefStatusMoved = "moved"
	// RefStatusPlanned：dry-run 下需要移动但未执行。
	RefStatusPlanned = "planned"
	// RefStatusUnchanged：源与目标相同（已整理），只规范化文本。
	RefStatusUnchanged = "unchanged"
	// RefStatusMissing：源文件不存在，跳过移动但文本照常改写。
	RefStatusMissing = "missing"
	// RefStatusRewritten：warp_resource，只改写文本。
	RefStatusRewritten = "rewritten"
	// RefStatusExcluded：producer 的 mlt_service 在排除集合中，整体不处理。
	RefStatusExcluded = "excluded"
	// RefStatusSkipped：引用路径为空，不指向任何文件，原样保留。
	RefStatusSkipped = "skipped"
	// RefStatusRolledBack：运行中止后已撤销的移动。
	RefStatusRolledBack = "rolled_back"
)

const (
	ErrCodeUsageInvalid      = "usage_invalid"
	ErrCodeProjectNotFound   = "project_not_found"
	ErrCodeConfigInvalid     = "config_invalid"
	ErrCodeDocumentMalformed = "document_malformed"
	ErrCodeTargetConflict    = "target_conflict"
	ErrCodeIOFailed          = "io_failed"
	ErrCodeMoveFailed        = "move_failed"
	ErrCodeLockBusy          = "lock_busy"
)

// RunReport 汇总一次运行的逐引用结果；顺序即文档顺序（确定性）。
type RunReport struct {
	Project string
	DryRun  bool

	StartedAt  time.Time
	FinishedAt time.Time

	Summary ReportSummary
	Items   []RefResult

	// 非空表示运行被中止；Items 只包含中止前已处理的引用。
	ErrorCode string
	ErrorMsg  string
}

type ReportSummary struct {
	Moved     int
	Planned   int
	Unchanged int
	Missing   int
	Rewritten int
	Excluded  int
	Skipped   int

	// RolledBack 只在运行中止时非 0。
	RolledBack int
}

// RefResult 是单个资源引用（或被排除的 producer）的处理结果。
type RefResult struct {
	Producer string
	Service  string
	Kind     RefKind
	Category Category

	Before string
	After  string

	Src string
	Dst string

	Status string
}

// Failed 表示运行是否被中止。
func (r *RunReport) Failed() bool { return r.ErrorCode != "" }

// Finalize 统一时间为 UTC，并由 items 重新计算 summary。
// items 不排序：文档顺序本身就是稳定顺序。
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	var s ReportSummary
	for _, it := range r.Items {
		switch it.Status {
		case RefStatusMoved:
			s.Moved++
		case RefStatusPlanned:
			s.Planned++
		case RefStatusUnchanged:
			s.Unchanged++
		case RefStatusMissing:
			s.Missing++
		case RefStatusRewritten:
			s.Rewritten++
		case RefStatusExcluded:
			s.Excluded++
		case RefStatusSkipped:
			s.Skipped++
		case RefStatusRolledBack:
			s.RolledBack++
		}
	}
	r.Summary = s
}
