package run

import (
	"errors"
	"fmt"

	"github.com/John-Robertt/kdorg/internal/app/planner"
	"github.com/John-Robertt/kdorg/internal/domain"
	"github.com/John-Robertt/kdorg/internal/infra/fsx"
	"github.com/John-Robertt/kdorg/internal/infra/lockx"
	"github.com/John-Robertt/kdorg/internal/project"
)

// Error 是中止运行的结构化错误（带 error_code）。
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s：%v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// classify 把底层错误映射为 error_code；fallback 用于无法细分的 I/O 错误。
func classify(err error, fallback string) *Error {
	var re *Error
	if errors.As(err, &re) {
		return re
	}
	code := fallback
	switch {
	case project.IsMalformed(err):
		code = domain.ErrCodeDocumentMalformed
	case planner.IsCollision(err), fsx.IsTargetExists(err), fsx.IsPathTypeConflict(err):
		code = domain.ErrCodeTargetConflict
	case lockx.IsBusy(err):
		code = domain.ErrCodeLockBusy
	}
	return &Error{Code: code, Err: err}
}
