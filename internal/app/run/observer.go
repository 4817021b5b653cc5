package run

import (
	"github.com/John-Robertt/kdorg/internal/config"
	"github.com/John-Robertt/kdorg/internal/domain"
)

// Observer 把“移动提示/逐引用结果”从核心执行流程中解耦出来。
//
// run 包只负责发事件，不做任何输出；Move 行、dry-run 文档与汇总表都由 CLI 决定写到哪里。
// 事件严格按文档顺序、在同一 goroutine 中发出。
type Observer interface {
	// OnStart 在 Execute 开始时调用。
	OnStart(eff config.EffectiveConfig)
	// OnMove 在源与目标不同的主资源上调用（dry-run 与源文件缺失时同样调用），先于实际移动。
	OnMove(mv domain.MovePlan)
	// OnRef 在每个引用（或被排除的 producer）处理完成时调用。
	OnRef(res domain.RefResult)
	// OnDone 在运行结束（成功或中止）时调用。
	OnDone(rr domain.RunReport)
}

type nopObserver struct{}

func (nopObserver) OnStart(config.EffectiveConfig) {}
func (nopObserver) OnMove(domain.MovePlan)         {}
func (nopObserver) OnRef(domain.RefResult)         {}
func (nopObserver) OnDone(domain.RunReport)        {}
