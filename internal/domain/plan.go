package domain

// MovePlan 规划一次文件移动（只描述 src/dst；是否真正执行由驱动层按 dry-run 与源文件存在性决定）。
type MovePlan struct {
	SrcAbs string
	DstAbs string
}

// Noop 表示源与目标相同（已整理过的引用），不需要移动也不输出 Move 行。
func (m MovePlan) Noop() bool { return m.SrcAbs == m.DstAbs }
