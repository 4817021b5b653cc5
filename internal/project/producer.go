package project

import (
	"fmt"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultElements 是默认枚举的资源元素。
var DefaultElements = []string{"producer"}

// DefaultExcludeServices 是默认排除的 mlt_service（纯色等不对应文件的 producer）。
var DefaultExcludeServices = []string{"color"}

// Producer 是一个承载资源引用的元素（默认即 <producer>）。
type Producer struct {
	doc *Document
	sel *goquery.Selection
}

// ID 返回 id 属性（可能为空）。
func (p *Producer) ID() string {
	id, _ := p.sel.Attr("id")
	return id
}

// Tag 返回元素名。
func (p *Producer) Tag() string { return goquery.NodeName(p.sel) }

// Property 返回第一个 name 匹配的后代 property；不存在返回 nil。
func (p *Producer) Property(name string) *Property {
	s := p.sel.Find(fmt.Sprintf("property[name=%q]", name)).First()
	if s.Length() == 0 {
		return nil
	}
	return p.doc.property(s.Get(0))
}

// Service 返回 mlt_service；缺失视为结构异常。
func (p *Producer) Service() (string, error) {
	prop := p.Property(PropService)
	if prop == nil {
		return "", &MalformedError{Producer: p.ID(), Reason: "缺少 mlt_service property"}
	}
	return prop.Text(), nil
}

// WarpResource 返回 warp_resource（可能为 nil）。
func (p *Producer) WarpResource() *Property { return p.Property(PropWarpResource) }

// Resource 返回 resource（可能为 nil）。
func (p *Producer) Resource() *Property { return p.Property(PropResource) }

// Producers 按文档顺序返回匹配 elements（为空时用 DefaultElements）的全部元素。
func (d *Document) Producers(elements ...string) []*Producer {
	if len(elements) == 0 {
		elements = DefaultElements
	}
	var out []*Producer
	d.doc.Find(strings.Join(elements, ", ")).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Producer{doc: d, sel: s})
	})
	return out
}

// Entry 是枚举结果中的一项。
type Entry struct {
	Producer *Producer
	Service  string
	Excluded bool
}

// Enumerate 按文档顺序枚举 producer，并按 mlt_service 标记是否排除。
// 任一 producer 缺少 mlt_service 时整体失败（返回 *MalformedError）。
func (d *Document) Enumerate(elements, exclude []string) ([]Entry, error) {
	ps := d.Producers(elements...)
	out := make([]Entry, 0, len(ps))
	for _, p := range ps {
		svc, err := p.Service()
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{
			Producer: p,
			Service:  svc,
			Excluded: slices.Contains(exclude, svc),
		})
	}
	return out, nil
}
