// Package project 读取并改写 Kdenlive 工程文件（MLT XML）。
//
// 文档被解析成一棵可用选择器查询的节点树（goquery），同时记录每个元素在原始字节中的位置。
// 改写只替换被修改的 property 文本；根元素内其余字节原样保留。
package project

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Declaration 是写回时固定使用的 XML 声明。
const Declaration = "<?xml version='1.0' encoding='utf-8'?>"

// Document 是已解析的工程文件。
type Document struct {
	src []byte

	rootStart int64
	rootEnd   int64

	doc   *goquery.Document
	spans map[*html.Node]span
	props map[*html.Node]*Property
}

// span 记录元素在 src 中的位置。
type span struct {
	qname string
	// tagEnd 是开始标签结束处（'>' 之后）。
	tagEnd int64
	// innerEnd 是结束标签开始处；自闭合元素等于 tagEnd。
	innerEnd    int64
	selfClosing bool
}

// Load 读取并解析 path。
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse 解析 XML 字节。语法错误返回 *MalformedError。
func Parse(src []byte) (*Document, error) {
	d := &Document{
		src:       src,
		rootStart: -1,
		rootEnd:   -1,
		spans:     map[*html.Node]span{},
		props:     map[*html.Node]*Property{},
	}

	top := &html.Node{Type: html.DocumentNode}

	type frame struct {
		node   *html.Node
		qname  string
		tagEnd int64
	}
	var stack []frame

	dec := xml.NewDecoder(bytes.NewReader(src))
	dec.Strict = true

	for {
		before := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &MalformedError{Reason: "XML 语法错误", Err: err}
		}
		after := dec.InputOffset()

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				if d.rootStart >= 0 {
					return nil, &MalformedError{Reason: fmt.Sprintf("存在多个根元素（第二个为 <%s>）", qname(t.Name))}
				}
				d.rootStart = before
			}
			n := &html.Node{
				Type: html.ElementNode,
				Data: qname(t.Name),
				Attr: convertAttrs(t.Attr),
			}
			parent := top
			if len(stack) > 0 {
				parent = stack[len(stack)-1].node
			}
			parent.AppendChild(n)
			stack = append(stack, frame{node: n, qname: n.Data, tagEnd: after})

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, &MalformedError{Reason: fmt.Sprintf("多余的结束标签 </%s>", qname(t.Name))}
			}
			f := stack[len(stack)-1]
			if name := qname(t.Name); name != f.qname {
				return nil, &MalformedError{Reason: fmt.Sprintf("结束标签 </%s> 与 <%s> 不匹配", name, f.qname)}
			}
			stack = stack[:len(stack)-1]
			d.spans[f.node] = span{
				qname:       f.qname,
				tagEnd:      f.tagEnd,
				innerEnd:    before,
				selfClosing: before == after,
			}
			if len(stack) == 0 {
				d.rootEnd = after
			}

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			stack[len(stack)-1].node.AppendChild(&html.Node{Type: html.TextNode, Data: string(t)})
		}
	}

	if len(stack) > 0 {
		return nil, &MalformedError{Reason: fmt.Sprintf("元素 <%s> 未闭合", stack[len(stack)-1].qname)}
	}
	if d.rootStart < 0 {
		return nil, &MalformedError{Reason: "文档没有根元素"}
	}

	d.doc = goquery.NewDocumentFromNode(top)
	return d, nil
}

// Root 返回根元素名（Kdenlive 工程为 "mlt"）。
func (d *Document) Root() string {
	return goquery.NodeName(d.doc.Children().First())
}

// Bytes 序列化文档：固定 XML 声明 + 根元素（只替换被改写的 property 文本）+ 换行。
func (d *Document) Bytes() []byte {
	dirty := make([]*Property, 0, len(d.props))
	for _, p := range d.props {
		if p.dirty() {
			dirty = append(dirty, p)
		}
	}
	sort.Slice(dirty, func(i, j int) bool { return dirty[i].span.tagEnd < dirty[j].span.tagEnd })

	var buf bytes.Buffer
	buf.Grow(int(d.rootEnd-d.rootStart) + len(Declaration) + 2)
	buf.WriteString(Declaration)
	buf.WriteByte('\n')

	cur := d.rootStart
	for _, p := range dirty {
		from, to := p.span.tagEnd, p.span.innerEnd
		if p.span.selfClosing {
			// "/>" -> ">text</name>"
			from = p.span.tagEnd - 2
		}
		if from < cur {
			// 嵌套在另一个已改写的 property 内：外层替换已覆盖。
			continue
		}
		buf.Write(d.src[cur:from])
		if p.span.selfClosing {
			buf.WriteByte('>')
			buf.WriteString(escapeText(p.text))
			buf.WriteString("</" + p.span.qname + ">")
		} else {
			buf.WriteString(escapeText(p.text))
		}
		cur = to
	}
	buf.Write(d.src[cur:d.rootEnd])
	buf.WriteByte('\n')
	return buf.Bytes()
}

// Changed 表示是否有 property 文本被改写。
func (d *Document) Changed() bool {
	for _, p := range d.props {
		if p.dirty() {
			return true
		}
	}
	return false
}

func (d *Document) property(n *html.Node) *Property {
	if p, ok := d.props[n]; ok {
		return p
	}
	sel := d.doc.FindNodes(n)
	name, _ := sel.Attr("name")
	orig := sel.Text()
	p := &Property{
		name: name,
		orig: orig,
		text: orig,
		span: d.spans[n],
	}
	d.props[n] = p
	return p
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func convertAttrs(attrs []xml.Attr) []html.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]html.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, html.Attribute{Namespace: a.Name.Space, Key: a.Name.Local, Val: a.Value})
	}
	return out
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string { return textEscaper.Replace(s) }

// MalformedError 表示工程文件不满足结构假设（语法错误或 producer 缺少必需 property）。
type MalformedError struct {
	// Producer 是出问题的 producer id（若有）。
	Producer string
	Reason   string
	Err      error
}

func (e *MalformedError) Error() string {
	msg := "工程文件结构异常：" + e.Reason
	if e.Producer != "" {
		msg += fmt.Sprintf("（producer %q）", e.Producer)
	}
	if e.Err != nil {
		msg += "：" + e.Err.Error()
	}
	return msg
}

func (e *MalformedError) Unwrap() error { return e.Err }

// IsMalformed 判断 err 是否为 *MalformedError。
func IsMalformed(err error) bool {
	var e *MalformedError
	return errors.As(err, &e)
}
