package project

// 关心的 property name。
const (
	PropService      = "mlt_service"
	PropResource     = "resource"
	PropWarpResource = "warp_resource"
)

// Property 是 producer 下的一个 <property name="..."> 元素。
// 文本改写只在 Document.Bytes 时落到字节上。
type Property struct {
	name string
	orig string
	text string
	span span
}

// Name 返回 name 属性。
func (p *Property) Name() string { return p.name }

// Text 返回当前文本（已改写则为新文本）。
func (p *Property) Text() string { return p.text }

// Original 返回解析时的文本。
func (p *Property) Original() string { return p.orig }

// SetText 改写文本；与原文本相同时序列化结果保持原字节。
func (p *Property) SetText(s string) { p.text = s }

func (p *Property) dirty() bool { return p.text != p.orig }
