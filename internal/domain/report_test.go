package domain

import (
	"testing"
	"time"
)

func TestRunReport_Finalize_SummaryAndUTC(t *testing.T) {
	r := RunReport{
		Project:    "/abs/x.kdenlive",
		DryRun:     true,
		StartedAt:  time.Date(2026, 2, 9, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
		FinishedAt: time.Date(2026, 2, 9, 10, 0, 1, 0, time.FixedZone("X", 8*3600)),
		Items: []RefResult{
			{Producer: "producer2", Status: RefStatusPlanned},
			{Producer: "producer0", Status: RefStatusExcluded},
			{Producer: "producer1", Status: RefStatusUnchanged},
			{Producer: "producer1", Status: RefStatusRewritten},
			{Producer: "producer3", Status: RefStatusMissing},
		},
	}

	r.Finalize()

	// 文档顺序必须原样保留。
	if r.Items[0].Producer != "producer2" || r.Items[1].Producer != "producer0" {
		t.Fatalf("items 顺序被改变：%+v", r.Items)
	}
	want := ReportSummary{Planned: 1, Excluded: 1, Unchanged: 1, Rewritten: 1, Missing: 1}
	if r.Summary != want {
		t.Fatalf("summary 统计不正确：got=%+v want=%+v", r.Summary, want)
	}
	if r.Failed() {
		t.Fatalf("未设置 ErrorCode 时不应视为失败")
	}

	if !r.StartedAt.Equal(time.Date(2026, 2, 9, 2, 0, 0, 0, time.UTC)) || r.StartedAt.Location() != time.UTC {
		t.Fatalf("started_at 应统一为 UTC：%v", r.StartedAt)
	}
	if r.FinishedAt.Location() != time.UTC {
		t.Fatalf("finished_at 应统一为 UTC：%v", r.FinishedAt)
	}
}

func TestCategoryForMIME(t *testing.T) {
	cases := map[string]Category{
		"video/mp4":       CategoryClips,
		"Video/Quicktime": CategoryClips,
		"image/png":       CategoryImages,
		"audio/mpeg":      CategoryAudio,
		"application/pdf": CategoryOther,
		"":                CategoryOther,
		"video":           CategoryClips,
	}
	for in, want := range cases {
		if got := CategoryForMIME(in); got != want {
			t.Fatalf("CategoryForMIME(%q)=%q，期望 %q", in, got, want)
		}
	}
}

func TestMovePlan_Noop(t *testing.T) {
	if !(MovePlan{SrcAbs: "/p/clips/a.mp4", DstAbs: "/p/clips/a.mp4"}).Noop() {
		t.Fatalf("相同路径应为 noop")
	}
	if (MovePlan{SrcAbs: "/p/a.mp4", DstAbs: "/p/clips/a.mp4"}).Noop() {
		t.Fatalf("不同路径不应为 noop")
	}
}
