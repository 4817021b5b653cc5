package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/John-Robertt/kdorg/internal/domain"
)

func writeFile(t *testing.T, p string, b []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}

func TestLoadEffective_UsageErrors(t *testing.T) {
	cwd := t.TempDir()
	for _, arg := range []string{"", "  ", "x.mlt", "x.kdenlive.bak"} {
		_, err := LoadEffective(cwd, CLIArgs{Project: arg})
		if Code(err) != domain.ErrCodeUsageInvalid {
			t.Fatalf("参数 %q 期望 %q，实际 err=%v", arg, domain.ErrCodeUsageInvalid, err)
		}
		if !IsUsage(err) {
			t.Fatalf("参数 %q 应属于 usage 错误", arg)
		}
	}
}

func TestLoadEffective_ProjectNotFound(t *testing.T) {
	cwd := t.TempDir()
	_, err := LoadEffective(cwd, CLIArgs{Project: "missing.kdenlive"})
	if Code(err) != domain.ErrCodeProjectNotFound || !IsUsage(err) {
		t.Fatalf("期望 %q，实际 err=%v", domain.ErrCodeProjectNotFound, err)
	}
}

func TestLoadEffective_DirectoryRejected(t *testing.T) {
	cwd := t.TempDir()
	if err := os.Mkdir(filepath.Join(cwd, "d.kdenlive"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	_, err := LoadEffective(cwd, CLIArgs{Project: "d.kdenlive"})
	if Code(err) != domain.ErrCodeUsageInvalid {
		t.Fatalf("目录应视为 usage 错误，实际 err=%v", err)
	}
}

func TestLoadEffective_DefaultsWithoutConfigFile(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "proj", "x.kdenlive"), []byte("<mlt/>"))

	eff, err := LoadEffective(cwd, CLIArgs{Project: filepath.Join("proj", "x.kdenlive")})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.ProjectFile != filepath.Join(cwd, "proj", "x.kdenlive") || eff.ProjectDir != filepath.Join(cwd, "proj") {
		t.Fatalf("路径解析错误：%+v", eff)
	}
	if eff.DryRun || eff.ConfigFile != "" {
		t.Fatalf("默认应为 apply 且无配置文件：%+v", eff)
	}
	if !reflect.DeepEqual(eff.ExcludeServices, []string{"color"}) || !reflect.DeepEqual(eff.Elements, []string{"producer"}) {
		t.Fatalf("默认排除/元素错误：%+v", eff)
	}
	for _, c := range domain.Categories() {
		if eff.Folders[c] != string(c) {
			t.Fatalf("默认目录错误：%v", eff.Folders)
		}
	}
}

func TestLoadEffective_DryRunCLIOverride(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "x.kdenlive"), []byte("<mlt/>"))
	writeFile(t, filepath.Join(cwd, FileName), []byte("dry_run = true\n"))

	eff, err := LoadEffective(cwd, CLIArgs{Project: "x.kdenlive"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !eff.DryRun || eff.ConfigFile != filepath.Join(cwd, FileName) {
		t.Fatalf("配置文件中的 dry_run 应生效：%+v", eff)
	}

	eff2, err := LoadEffective(cwd, CLIArgs{Project: "x.kdenlive", DryRun: false, DryRunSet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff2.DryRun {
		t.Fatalf("CLI 显式 --dryRun=false 应覆盖配置")
	}
}

func TestLoadEffective_FileOverrides(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "x.kdenlive"), []byte("<mlt/>"))
	writeFile(t, filepath.Join(cwd, FileName), []byte(`
exclude_services = ["color", "qtext"]
elements = ["producer", "chain"]

[folders]
clips = "footage"
`))

	eff, err := LoadEffective(cwd, CLIArgs{Project: "x.kdenlive"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !reflect.DeepEqual(eff.ExcludeServices, []string{"color", "qtext"}) {
		t.Fatalf("exclude_services=%v", eff.ExcludeServices)
	}
	if !reflect.DeepEqual(eff.Elements, []string{"producer", "chain"}) {
		t.Fatalf("elements=%v", eff.Elements)
	}
	if eff.Folders[domain.CategoryClips] != "footage" || eff.Folders[domain.CategoryAudio] != "audio" {
		t.Fatalf("folders=%v", eff.Folders)
	}
}

func TestLoadEffective_EmptyExcludeMeansNone(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "x.kdenlive"), []byte("<mlt/>"))
	writeFile(t, filepath.Join(cwd, FileName), []byte("exclude_services = []\n"))

	eff, err := LoadEffective(cwd, CLIArgs{Project: "x.kdenlive"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(eff.ExcludeServices) != 0 {
		t.Fatalf("显式空数组应表示不排除：%v", eff.ExcludeServices)
	}
}

func TestLoadEffective_InvalidConfig(t *testing.T) {
	cases := map[string]string{
		"syntax":        "dry_run = \n",
		"unknown field": "concurrency = 4\n",
		"bad category":  "[folders]\nvideos = \"v\"\n",
		"nested folder": "[folders]\nclips = \"a/b\"\n",
		"dup folder":    "[folders]\nclips = \"media\"\nimages = \"media\"\n",
		"bad element":   "elements = [\"producer > property\"]\n",
	}
	for name, body := range cases {
		cwd := t.TempDir()
		writeFile(t, filepath.Join(cwd, "x.kdenlive"), []byte("<mlt/>"))
		writeFile(t, filepath.Join(cwd, FileName), []byte(body))

		_, err := LoadEffective(cwd, CLIArgs{Project: "x.kdenlive"})
		if Code(err) != domain.ErrCodeConfigInvalid {
			t.Fatalf("%s：期望 %q，实际 err=%v", name, domain.ErrCodeConfigInvalid, err)
		}
		if IsUsage(err) {
			t.Fatalf("%s：配置错误不应属于 usage 错误", name)
		}
	}
}
