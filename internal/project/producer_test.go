package project

import (
	"testing"
)

func TestEnumerate_MarksExcludedServices(t *testing.T) {
	d := mustParse(t, sampleProject)
	entries, err := d.Enumerate(nil, DefaultExcludeServices)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("期望 3 项，实际 %d", len(entries))
	}
	if !entries[0].Excluded || entries[0].Service != "color" {
		t.Fatalf("color producer 应被排除：%+v", entries[0])
	}
	if entries[1].Excluded || entries[1].Service != "avformat" {
		t.Fatalf("avformat producer 不应被排除：%+v", entries[1])
	}
	if entries[2].Excluded || entries[2].Service != "timewarp" {
		t.Fatalf("timewarp producer 不应被排除：%+v", entries[2])
	}
}

func TestEnumerate_MissingServiceIsFatal(t *testing.T) {
	src := `<mlt>
 <producer id="ok"><property name="mlt_service">avformat</property></producer>
 <producer id="broken"><property name="resource">a.mp4</property></producer>
</mlt>`
	d := mustParse(t, src)
	_, err := d.Enumerate(nil, DefaultExcludeServices)
	if !IsMalformed(err) {
		t.Fatalf("期望 MalformedError，实际 %v", err)
	}
	me := err.(*MalformedError)
	if me.Producer != "broken" {
		t.Fatalf("错误应指出 producer id，实际 %q", me.Producer)
	}
}

func TestProducers_CustomElements(t *testing.T) {
	src := `<mlt>
 <chain id="chain0"><property name="mlt_service">avformat-novalidate</property><property name="resource">a.mp4</property></chain>
 <producer id="producer0"><property name="mlt_service">avformat</property><property name="resource">b.mp4</property></producer>
 <chain id="chain1"><property name="mlt_service">avformat-novalidate</property><property name="resource">c.mp4</property></chain>
</mlt>`
	d := mustParse(t, src)

	if got := len(d.Producers()); got != 1 {
		t.Fatalf("默认只枚举 producer，实际 %d", got)
	}

	ps := d.Producers("producer", "chain")
	var ids []string
	for _, p := range ps {
		ids = append(ids, p.ID())
	}
	want := []string{"chain0", "producer0", "chain1"}
	if len(ids) != len(want) {
		t.Fatalf("ids=%v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("应按文档顺序枚举：got=%v want=%v", ids, want)
		}
	}
	if ps[0].Tag() != "chain" {
		t.Fatalf("Tag=%q", ps[0].Tag())
	}
}

func TestProperty_SameInstanceAcrossLookups(t *testing.T) {
	d := mustParse(t, sampleProject)
	p := d.Producers()[1]
	a := p.Resource()
	a.SetText("./clips/intro.mov")
	if b := p.Resource(); b != a || b.Text() != "./clips/intro.mov" {
		t.Fatalf("重复查找应返回同一 Property 并保留改写")
	}
}
