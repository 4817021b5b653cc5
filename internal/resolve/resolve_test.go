package resolve

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/John-Robertt/kdorg/internal/domain"
)

type textRef struct{ s string }

func (r *textRef) Text() string     { return r.s }
func (r *textRef) SetText(s string) { r.s = s }

func mustResolver(t *testing.T, dir string, folders map[domain.Category]string) *Resolver {
	t.Helper()
	r, err := New(dir, folders)
	if err != nil {
		t.Fatalf("New 失败：%v", err)
	}
	return r
}

func TestResolve_RelativeAndAbsolute(t *testing.T) {
	proj := filepath.FromSlash("/proj")
	r := mustResolver(t, proj, nil)

	rel, err := r.Resolve("clip.mp4")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if rel.SourceAbs != filepath.FromSlash("/proj/clip.mp4") {
		t.Fatalf("相对路径解析错误：%q", rel.SourceAbs)
	}

	abs, err := r.Resolve("/other/clip.mp4")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if abs.SourceAbs != filepath.FromSlash("/other/clip.mp4") {
		t.Fatalf("绝对路径应原样作为源路径：%q", abs.SourceAbs)
	}
	if abs.TargetRel != "./clips/clip.mp4" {
		t.Fatalf("TargetRel=%q", abs.TargetRel)
	}
	if abs.TargetAbs != filepath.FromSlash("/proj/clips/clip.mp4") {
		t.Fatalf("TargetAbs=%q", abs.TargetAbs)
	}
	if abs.FolderAbs != filepath.FromSlash("/proj/clips") {
		t.Fatalf("FolderAbs=%q", abs.FolderAbs)
	}
}

func TestResolve_ParentRelative(t *testing.T) {
	r := mustResolver(t, filepath.FromSlash("/proj"), nil)
	res, err := r.Resolve("../raw/intro.mov")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if res.SourceAbs != filepath.FromSlash("/raw/intro.mov") {
		t.Fatalf("SourceAbs=%q", res.SourceAbs)
	}
	if res.TargetRel != "./clips/intro.mov" || res.Category != domain.CategoryClips {
		t.Fatalf("结果不符合预期：%+v", res)
	}
}

func TestResolve_Categories(t *testing.T) {
	r := mustResolver(t, filepath.FromSlash("/proj"), nil)
	cases := map[string]string{
		"movie.mp4":    "./clips/movie.mp4",
		"photo.png":    "./images/photo.png",
		"song.mp3":     "./audio/song.mp3",
		"document.xyz": "./other/document.xyz",
		"README":       "./other/README",
	}
	for in, want := range cases {
		res, err := r.Resolve(in)
		if err != nil {
			t.Fatalf("Resolve(%q) 不期望错误：%v", in, err)
		}
		if res.TargetRel != want {
			t.Fatalf("Resolve(%q).TargetRel=%q，期望 %q", in, res.TargetRel, want)
		}
	}
}

func TestResolve_KeepsModificationPrefix(t *testing.T) {
	r := mustResolver(t, filepath.FromSlash("/proj"), nil)
	res, err := r.Resolve("120,480:footage/a.mp4")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if res.TargetRel != "120,480:./clips/a.mp4" {
		t.Fatalf("TargetRel=%q", res.TargetRel)
	}
	if res.SourceAbs != filepath.FromSlash("/proj/footage/a.mp4") {
		t.Fatalf("前缀不应进入源路径：%q", res.SourceAbs)
	}
	if res.Modification.String() != "120,480:" {
		t.Fatalf("Modification=%q", res.Modification.String())
	}
}

func TestApply_Idempotent(t *testing.T) {
	r := mustResolver(t, filepath.FromSlash("/proj"), nil)

	for _, in := range []string{"raw/a.mp4", "3,9:/elsewhere/b.png", "c.wav"} {
		ref := &textRef{s: in}
		first, err := r.Apply(ref)
		if err != nil {
			t.Fatalf("Apply(%q) 失败：%v", in, err)
		}
		afterFirst := ref.s

		second, err := r.Apply(ref)
		if err != nil {
			t.Fatalf("二次 Apply(%q) 失败：%v", in, err)
		}
		if ref.s != afterFirst {
			t.Fatalf("二次改写不应变化：%q -> %q", afterFirst, ref.s)
		}
		if !second.Move().Noop() {
			t.Fatalf("已整理引用不应再移动：%+v", second.Move())
		}
		if second.TargetAbs != first.TargetAbs {
			t.Fatalf("目标路径不稳定：%q vs %q", first.TargetAbs, second.TargetAbs)
		}
	}
}

func TestApply_EmptyPathLeavesRefUntouched(t *testing.T) {
	r := mustResolver(t, filepath.FromSlash("/proj"), nil)
	for _, in := range []string{"", "  ", "1,2:"} {
		ref := &textRef{s: in}
		_, err := r.Apply(ref)
		if !errors.Is(err, ErrEmptyPath) {
			t.Fatalf("Apply(%q) 期望 ErrEmptyPath，实际 %v", in, err)
		}
		if ref.s != in {
			t.Fatalf("空路径不应改写文本：%q", ref.s)
		}
	}
}

func TestResolve_CustomFolders(t *testing.T) {
	r := mustResolver(t, filepath.FromSlash("/proj"), map[domain.Category]string{
		domain.CategoryClips: "footage",
	})
	res, err := r.Resolve("a.mp4")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if res.TargetRel != "./footage/a.mp4" || res.TargetAbs != filepath.FromSlash("/proj/footage/a.mp4") {
		t.Fatalf("自定义目录未生效：%+v", res)
	}
	img, _ := r.Resolve("a.png")
	if img.TargetRel != "./images/a.png" {
		t.Fatalf("未配置的归类应使用默认目录：%q", img.TargetRel)
	}
}

func TestNew_RejectsRelativeProjectDir(t *testing.T) {
	if _, err := New("proj", nil); err == nil {
		t.Fatalf("相对工程目录应报错")
	}
}
