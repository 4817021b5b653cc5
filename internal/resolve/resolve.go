// Package resolve 负责单个资源引用的路径解析与改写。
//
// 只做纯计算与文本改写；建目录、移动文件由调用方（run 包）按 dry-run 决定。
package resolve

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/kdorg/internal/domain"
	"github.com/John-Robertt/kdorg/internal/mediatype"
)

// ErrEmptyPath 表示去掉前缀后路径为空；这种引用不指向任何文件，调用方应原样保留。
var ErrEmptyPath = errors.New("资源路径为空")

// Ref 是可读写文本的资源引用（通常是 project.Property）。
type Ref interface {
	Text() string
	SetText(string)
}

// Result 是一次解析的结构化结果。
type Result struct {
	Modification Modification
	Category     domain.Category

	// SourceAbs 是引用当前指向的绝对路径（clean）。
	SourceAbs string
	// FolderAbs 是 <project>/<category folder>。
	FolderAbs string
	// TargetRel 是写回文档的文本（含前缀，'/' 分隔，以 "./" 开头）。
	TargetRel string
	// TargetAbs 是 <FolderAbs>/<filename>。
	TargetAbs string
}

// Move 返回该结果对应的移动计划。
func (r Result) Move() domain.MovePlan {
	return domain.MovePlan{SrcAbs: r.SourceAbs, DstAbs: r.TargetAbs}
}

// Resolver 在固定的工程目录下解析引用。
type Resolver struct {
	projectDir string
	folders    map[domain.Category]string
	classify   func(name string) domain.Category
}

// New 创建 Resolver。projectDir 必须是绝对路径；folders 缺失的归类使用默认目录名（即归类名本身）。
func New(projectDir string, folders map[domain.Category]string) (*Resolver, error) {
	if !filepath.IsAbs(projectDir) {
		return nil, fmt.Errorf("工程目录必须是绝对路径：%q", projectDir)
	}
	fs := make(map[domain.Category]string, 4)
	for _, c := range domain.Categories() {
		name := strings.TrimSpace(folders[c])
		if name == "" {
			name = string(c)
		}
		fs[c] = name
	}
	return &Resolver{
		projectDir: filepath.Clean(projectDir),
		folders:    fs,
		classify:   mediatype.Classify,
	}, nil
}

// Resolve 只计算，不改写。
func (r *Resolver) Resolve(text string) (Result, error) {
	mod, p, _ := SplitModification(text)
	if strings.TrimSpace(p) == "" {
		return Result{}, ErrEmptyPath
	}

	src := filepath.FromSlash(p)
	if !filepath.IsAbs(src) {
		src = filepath.Join(r.projectDir, src)
	}
	src = filepath.Clean(src)

	name := filepath.Base(src)
	cat := r.classify(name)
	folder := r.folders[cat]
	folderAbs := filepath.Join(r.projectDir, folder)

	return Result{
		Modification: mod,
		Category:     cat,
		SourceAbs:    src,
		FolderAbs:    folderAbs,
		TargetRel:    mod.String() + "./" + filepath.ToSlash(filepath.Join(folder, name)),
		TargetAbs:    filepath.Join(folderAbs, name),
	}, nil
}

// Apply 解析 ref 并把文本改写为 TargetRel。
// ErrEmptyPath 时 ref 保持不变。
func (r *Resolver) Apply(ref Ref) (Result, error) {
	res, err := r.Resolve(ref.Text())
	if err != nil {
		return Result{}, err
	}
	ref.SetText(res.TargetRel)
	return res, nil
}
