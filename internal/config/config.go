package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/John-Robertt/kdorg/internal/domain"
	"github.com/John-Robertt/kdorg/internal/project"
)

const (
	// ProjectExt 是唯一接受的工程文件扩展名。
	ProjectExt = ".kdenlive"
	// FileName 是工程目录下可选的配置文件名。
	FileName = "kdorg.toml"
)

// CLIArgs 只包含 CLI 暴露的入口，并保留“是否显式指定”的信息，
// 保证 --dryRun=false 能覆盖配置文件中的 dry_run = true。
type CLIArgs struct {
	Project string

	DryRun    bool
	DryRunSet bool
}

// FileConfig 对应 kdorg.toml。
type FileConfig struct {
	DryRun          *bool             `toml:"dry_run"`
	ExcludeServices []string          `toml:"exclude_services"`
	Elements        []string          `toml:"elements"`
	Folders         map[string]string `toml:"folders"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	// ProjectFile 是工程文件的 clean + absolute 路径。
	ProjectFile string
	// ProjectDir 是 ProjectFile 所在目录，所有相对资源路径以它为基准。
	ProjectDir string

	DryRun bool

	ExcludeServices []string
	Elements        []string
	Folders         map[domain.Category]string

	// ConfigFile 非空表示确实读取了 kdorg.toml。
	ConfigFile string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case domain.ErrCodeUsageInvalid:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "需要指定一个 " + ProjectExt + " 工程文件"
	case domain.ErrCodeProjectNotFound:
		return fmt.Sprintf("工程文件不存在：%q", e.Path)
	case domain.ErrCodeConfigInvalid:
		if e.Err != nil {
			return fmt.Sprintf("配置文件 %q 无效：%v", e.Path, e.Err)
		}
		return fmt.Sprintf("配置文件 %q 无效", e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
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

// IsUsage 表示错误属于“参数/工程文件”类（CLI 以 -1 退出）。
func IsUsage(err error) bool {
	switch Code(err) {
	case domain.ErrCodeUsageInvalid, domain.ErrCodeProjectNotFound:
		return true
	}
	return false
}

// LoadEffective 校验工程文件参数，读取 <工程目录>/kdorg.toml（可选），并与 CLI 参数合并。
//
// 覆盖优先级（固定）：
// - dry_run：CLI --dryRun（显式指定时）> 配置 > 默认 false
// - exclude_services / elements / folders：仅由配置控制，缺省使用内置默认
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	arg := strings.TrimSpace(cli.Project)
	if arg == "" || !strings.HasSuffix(arg, ProjectExt) {
		return EffectiveConfig{}, &Error{Code: domain.ErrCodeUsageInvalid, Path: arg}
	}

	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: domain.ErrCodeUsageInvalid, Path: cwd, Err: err}
	}
	projectFile := absCleanFrom(cwdAbs, arg)

	fi, err := os.Stat(projectFile)
	if err != nil {
		if os.IsNotExist(err) {
			return EffectiveConfig{}, &Error{Code: domain.ErrCodeProjectNotFound, Path: projectFile, Err: err}
		}
		return EffectiveConfig{}, &Error{Code: domain.ErrCodeUsageInvalid, Path: projectFile, Err: err}
	}
	if fi.IsDir() {
		return EffectiveConfig{}, &Error{Code: domain.ErrCodeUsageInvalid, Path: projectFile, Err: fmt.Errorf("%q 是目录，不是工程文件", projectFile)}
	}

	projectDir := filepath.Dir(projectFile)
	cfgPath := filepath.Join(projectDir, FileName)
	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: domain.ErrCodeConfigInvalid, Path: cfgPath, Err: err}
	}

	eff, err := merge(projectFile, cli, fc)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: domain.ErrCodeConfigInvalid, Path: cfgPath, Err: err}
	}
	if exists {
		eff.ConfigFile = cfgPath
	}
	return eff, nil
}

func merge(projectFile string, cli CLIArgs, fc FileConfig) (EffectiveConfig, error) {
	dryRun := false
	if cli.DryRunSet {
		dryRun = cli.DryRun
	} else if fc.DryRun != nil {
		dryRun = *fc.DryRun
	}

	exclude := project.DefaultExcludeServices
	if fc.ExcludeServices != nil {
		// 显式给出空数组表示“不排除任何 service”。
		exclude = trimAll(fc.ExcludeServices)
	}

	elements := project.DefaultElements
	if len(fc.Elements) > 0 {
		elements = trimAll(fc.Elements)
		for _, e := range elements {
			if !isName(e) {
				return EffectiveConfig{}, fmt.Errorf("elements 只能是元素名，实际 %q", e)
			}
		}
	}

	folders, err := mergeFolders(fc.Folders)
	if err != nil {
		return EffectiveConfig{}, err
	}

	return EffectiveConfig{
		ProjectFile:     projectFile,
		ProjectDir:      filepath.Dir(projectFile),
		DryRun:          dryRun,
		ExcludeServices: append([]string(nil), exclude...),
		Elements:        append([]string(nil), elements...),
		Folders:         folders,
	}, nil
}

func mergeFolders(in map[string]string) (map[domain.Category]string, error) {
	out := make(map[domain.Category]string, 4)
	for _, c := range domain.Categories() {
		out[c] = string(c)
	}
	for k, v := range in {
		c := domain.Category(strings.TrimSpace(k))
		if !slices.Contains(domain.Categories(), c) {
			return nil, fmt.Errorf("folders 只支持 clips/images/audio/other，实际 %q", k)
		}
		v = strings.TrimSpace(v)
		if v == "" || v == "." || v == ".." || strings.ContainsAny(v, `/\`) {
			return nil, fmt.Errorf("folders.%s 必须是单级目录名，实际 %q", k, v)
		}
		out[c] = v
	}

	seen := make(map[string]domain.Category, len(out))
	for _, c := range domain.Categories() {
		if prev, ok := seen[out[c]]; ok {
			return nil, fmt.Errorf("folders.%s 与 folders.%s 不能使用同一目录 %q", prev, c, out[c])
		}
		seen[out[c]] = c
	}
	return out, nil
}

func trimAll(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x = strings.TrimSpace(x); x != "" {
			out = append(out, x)
		}
	}
	return out
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 TOML 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
