// Package lockx 为一次 apply 运行持有工程文件的排他锁，防止两个进程同时搬动同一工程的素材。
package lockx

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// BusyError 表示锁已被其他进程持有。
type BusyError struct {
	Path string
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("工程正在被另一个进程整理（锁文件 %q）", e.Path)
}

func IsBusy(err error) bool {
	var e *BusyError
	return errors.As(err, &e)
}

// Lock 是已获取的工程锁。
type Lock struct {
	path string
	fl   *flock.Flock
}

// PathFor 返回 project 对应的锁文件路径。
func PathFor(project string) string { return project + ".lock" }

// Acquire 非阻塞地获取 project 的锁；已被占用时返回 *BusyError。
func Acquire(project string) (*Lock, error) {
	p := PathFor(project)
	fl := flock.New(p)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("获取锁失败：%w", err)
	}
	if !ok {
		return nil, &BusyError{Path: p}
	}
	return &Lock{path: p, fl: fl}, nil
}

// Path 返回锁文件路径。
func (l *Lock) Path() string { return l.path }

// Release 释放锁。锁文件保留在原处：删除它会让“持有旧 inode 的进程”与“新建锁文件的进程”同时拿到锁。
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
