//go:build unix

package fsx

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isEXDEV 判断 rename 是否因跨文件系统失败（*os.LinkError 会被 errors.Is 逐层展开）。
func isEXDEV(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
