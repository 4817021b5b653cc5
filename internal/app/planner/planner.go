package planner

import (
	"errors"
	"fmt"
	"os"

	"github.com/John-Robertt/kdorg/internal/domain"
)

// CollisionError 表示两个不同来源在本次运行中解析到同一目标路径。
type CollisionError struct {
	Dst      string
	FirstSrc string
	Src      string
}

func (e *CollisionError) Error() string {
	if e.FirstSrc == e.Dst {
		return fmt.Sprintf("目标冲突：%q 已在整理位置，%q 不能再移动过去", e.Dst, e.Src)
	}
	return fmt.Sprintf("目标冲突：%q 与 %q 都会被移动到 %q", e.FirstSrc, e.Src, e.Dst)
}

func IsCollision(err error) bool {
	var e *CollisionError
	return errors.As(err, &e)
}

// Claims 记录本次运行中已分配的目标路径（dst -> src），用于 O(1) 冲突判定。
type Claims struct {
	byDst map[string]string
}

func NewClaims() *Claims {
	return &Claims{byDst: make(map[string]string, 64)}
}

// Claim 登记一次真实存在的文件占用的目标。调用方只为源文件存在的引用登记。
//
// 同一来源重复登记（同一素材被多个 producer 引用）不算冲突；
// 已整理的引用（源即目标）遇到已登记的目标也不算冲突：那里的文件就是先前移动过去的那个。
func (c *Claims) Claim(mv domain.MovePlan) error {
	prev, ok := c.byDst[mv.DstAbs]
	if !ok {
		c.byDst[mv.DstAbs] = mv.SrcAbs
		return nil
	}
	if prev == mv.SrcAbs || mv.Noop() {
		return nil
	}
	return &CollisionError{Dst: mv.DstAbs, FirstSrc: prev, Src: mv.SrcAbs}
}

// Len 返回已登记的目标数。
func (c *Claims) Len() int { return len(c.byDst) }

// SourceState 描述一次移动在磁盘上的现状（只做 stat，不读内容）。
type SourceState struct {
	SrcExists bool
	// DstOccupied 表示目标位置已有另一个文件（不是源文件本身）。
	DstOccupied bool
}

// ReadSourceState 读取 mv 的源/目标现状。
func ReadSourceState(mv domain.MovePlan) (SourceState, error) {
	var st SourceState

	sfi, err := os.Stat(mv.SrcAbs)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return SourceState{}, err
	}
	st.SrcExists = true

	if mv.Noop() {
		return st, nil
	}
	dfi, err := os.Stat(mv.DstAbs)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return SourceState{}, err
	}
	st.DstOccupied = !os.SameFile(sfi, dfi)
	return st, nil
}
