package run

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/John-Robertt/kdorg/internal/app/planner"
	"github.com/John-Robertt/kdorg/internal/config"
	"github.com/John-Robertt/kdorg/internal/domain"
	"github.com/John-Robertt/kdorg/internal/infra/fsx"
	"github.com/John-Robertt/kdorg/internal/infra/lockx"
	"github.com/John-Robertt/kdorg/internal/project"
	"github.com/John-Robertt/kdorg/internal/resolve"
)

// Result 是一次运行的产物。
type Result struct {
	Report domain.RunReport
	// Document 是改写后的工程文件内容（dry-run 时由 CLI 打印；apply 时已写回）。
	Document []byte
}

// Execute 执行一次整理（dry-run/apply）。
func Execute(eff config.EffectiveConfig, logger *slog.Logger) (Result, error) {
	return ExecuteWithObserver(eff, logger, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 接收移动提示与逐引用结果。
//
// 单线程、单遍：按文档顺序逐个处理 producer。任何 I/O 失败都会中止运行；
// apply 模式下中止前已完成的移动会倒序回滚，工程文件保持原样。
func ExecuteWithObserver(eff config.EffectiveConfig, logger *slog.Logger, obs Observer) (Result, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := &executor{
		eff:    eff,
		log:    logger.With("project", eff.ProjectFile),
		obs:    obs,
		claims: planner.NewClaims(),
		status: make(map[domain.MovePlan]string, 64),
		rr: domain.RunReport{
			Project:   eff.ProjectFile,
			DryRun:    eff.DryRun,
			StartedAt: time.Now().UTC(),
			Items:     make([]domain.RefResult, 0, 64),
		},
	}

	obs.OnStart(eff)

	if !eff.DryRun {
		lock, err := lockx.Acquire(eff.ProjectFile)
		if err != nil {
			rerr := classify(err, domain.ErrCodeIOFailed)
			e.fail(rerr)
			return Result{Report: e.rr}, rerr
		}
		defer func() {
			if err := lock.Release(); err != nil {
				e.log.Warn("释放工程锁失败", "lock", lock.Path(), "err", err)
			}
		}()
	}

	doc, err := e.run()
	if err != nil {
		rerr := classify(err, domain.ErrCodeIOFailed)
		e.rollback()
		e.fail(rerr)
		return Result{Report: e.rr}, rerr
	}

	e.finish()
	return Result{Report: e.rr, Document: doc}, nil
}

type executor struct {
	eff    config.EffectiveConfig
	log    *slog.Logger
	obs    Observer
	claims *planner.Claims
	// status 记录每个移动计划首次处理的结果；同一素材被多个 producer 引用时沿用。
	status map[domain.MovePlan]string

	rr domain.RunReport
	// moved 记录已完成的移动及其在 rr.Items 中的下标（用于回滚）。
	moved []movedRef
	// createdDirs 是本次运行新建的归类目录。
	createdDirs []string
}

type movedRef struct {
	item int
	mv   domain.MovePlan
}

func (e *executor) run() ([]byte, error) {
	fi, err := os.Stat(e.eff.ProjectFile)
	if err != nil {
		return nil, err
	}
	doc, err := project.Load(e.eff.ProjectFile)
	if err != nil {
		return nil, err
	}

	res, err := resolve.New(e.eff.ProjectDir, e.eff.Folders)
	if err != nil {
		return nil, err
	}

	entries, err := doc.Enumerate(e.eff.Elements, e.eff.ExcludeServices)
	if err != nil {
		return nil, err
	}
	e.log.Debug("枚举 producer 完成", "total", len(entries))

	for _, ent := range entries {
		if err := e.processEntry(res, ent); err != nil {
			return nil, err
		}
	}

	out := doc.Bytes()
	if e.eff.DryRun {
		return out, nil
	}

	if err := fsx.WriteFileAtomicReplace(filepath.Dir(e.eff.ProjectFile), filepath.Base(e.eff.ProjectFile), out, fi.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("写回工程文件失败：%w", err)
	}
	e.log.Debug("工程文件已写回", "bytes", len(out), "changed", doc.Changed())
	return out, nil
}

func (e *executor) processEntry(res *resolve.Resolver, ent project.Entry) error {
	p := ent.Producer
	if ent.Excluded {
		e.emit(domain.RefResult{
			Producer: p.ID(),
			Service:  ent.Service,
			Status:   domain.RefStatusExcluded,
		})
		return nil
	}

	// warp_resource 先处理：只改写文本，不建目录、不移动。
	if warp := p.WarpResource(); warp != nil {
		item := domain.RefResult{
			Producer: p.ID(),
			Service:  ent.Service,
			Kind:     domain.RefWarp,
			Before:   warp.Text(),
		}
		r, err := res.Apply(warp)
		switch {
		case errors.Is(err, resolve.ErrEmptyPath):
			item.Status = domain.RefStatusSkipped
		case err != nil:
			return err
		default:
			item.Category = r.Category
			item.After = r.TargetRel
			item.Src = r.SourceAbs
			item.Dst = r.TargetAbs
			item.Status = domain.RefStatusRewritten
		}
		e.emit(item)
	}

	prop := p.Resource()
	if prop == nil {
		return nil
	}

	item := domain.RefResult{
		Producer: p.ID(),
		Service:  ent.Service,
		Kind:     domain.RefResource,
		Before:   prop.Text(),
	}
	r, err := res.Apply(prop)
	if errors.Is(err, resolve.ErrEmptyPath) {
		item.Status = domain.RefStatusSkipped
		e.emit(item)
		return nil
	}
	if err != nil {
		return err
	}
	item.Category = r.Category
	item.After = r.TargetRel
	item.Src = r.SourceAbs
	item.Dst = r.TargetAbs

	mv := r.Move()
	if !e.eff.DryRun {
		if err := e.ensureDir(r.FolderAbs); err != nil {
			return err
		}
	}

	st, err := planner.ReadSourceState(mv)
	if err != nil {
		return err
	}

	if mv.Noop() {
		if st.SrcExists {
			if err := e.claims.Claim(mv); err != nil {
				return err
			}
		}
		item.Status = domain.RefStatusUnchanged
		e.emit(item)
		return nil
	}

	e.obs.OnMove(mv)

	if prev, ok := e.status[mv]; ok {
		item.Status = prev
		e.emit(item)
		return nil
	}

	if !st.SrcExists {
		// 断开的引用：不移动、不占用目标，但文档照常改写到新位置。
		e.log.Debug("源文件不存在，跳过移动", "src", mv.SrcAbs)
		item.Status = domain.RefStatusMissing
		e.status[mv] = item.Status
		e.emit(item)
		return nil
	}

	if err := e.claims.Claim(mv); err != nil {
		return err
	}
	switch {
	case st.DstOccupied:
		return &fsx.TargetExistsError{Src: mv.SrcAbs, Dst: mv.DstAbs}
	case e.eff.DryRun:
		item.Status = domain.RefStatusPlanned
	default:
		if err := fsx.Move(mv.SrcAbs, mv.DstAbs); err != nil {
			if fsx.IsTargetExists(err) || fsx.IsPathTypeConflict(err) {
				return err
			}
			return &Error{Code: domain.ErrCodeMoveFailed, Err: err}
		}
		e.moved = append(e.moved, movedRef{item: len(e.rr.Items), mv: mv})
		item.Status = domain.RefStatusMoved
	}
	e.status[mv] = item.Status
	e.emit(item)
	return nil
}

// ensureDir 创建归类目录，并记下本次运行新建的目录（中止时清理）。
func (e *executor) ensureDir(dir string) error {
	_, statErr := os.Stat(dir)
	if err := fsx.EnsureDir(dir); err != nil {
		return err
	}
	if os.IsNotExist(statErr) {
		e.createdDirs = append(e.createdDirs, dir)
	}
	return nil
}

func (e *executor) emit(item domain.RefResult) {
	e.rr.Items = append(e.rr.Items, item)
	e.obs.OnRef(item)
}

// rollback 倒序撤销已完成的移动，再删除本次新建且已为空的归类目录；失败只记日志，不覆盖原始错误。
func (e *executor) rollback() {
	for i := len(e.moved) - 1; i >= 0; i-- {
		m := e.moved[i]
		if err := fsx.Move(m.mv.DstAbs, m.mv.SrcAbs); err != nil {
			e.log.Error("回滚移动失败", "src", m.mv.SrcAbs, "dst", m.mv.DstAbs, "err", err)
			continue
		}
		for j := m.item; j < len(e.rr.Items); j++ {
			it := &e.rr.Items[j]
			if it.Kind == domain.RefResource && it.Dst == m.mv.DstAbs && it.Status == domain.RefStatusMoved {
				it.Status = domain.RefStatusRolledBack
			}
		}
	}
	e.moved = nil

	// 只删除仍为空的目录；回滚失败留下的文件会让 Remove 失败，目录随之保留。
	for i := len(e.createdDirs) - 1; i >= 0; i-- {
		dir := e.createdDirs[i]
		if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
			e.log.Debug("保留非空目录", "dir", dir, "err", err)
		}
	}
	e.createdDirs = nil
}

func (e *executor) fail(err *Error) {
	e.rr.ErrorCode = err.Code
	e.rr.ErrorMsg = err.Err.Error()
	e.finish()
}

func (e *executor) finish() {
	e.rr.FinishedAt = time.Now().UTC()
	e.rr.Finalize()
	e.obs.OnDone(e.rr)
}
