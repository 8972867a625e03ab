package vector

import (
	"bytes"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// attr is a single attribute of an element start tag.
type attr struct {
	name  string
	value string
	quote byte
	bare  bool
}

// element holds the start tag of an element while it is being rewritten.
type element struct {
	tag   string
	attrs []attr
	root  bool
}

// local returns the tag name without its namespace prefix.
func (el *element) local() string {
	if i := strings.LastIndexByte(el.tag, ':'); i >= 0 {
		return el.tag[i+1:]
	}
	return el.tag
}

func (el *element) get(name string) (string, bool) {
	for _, a := range el.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// set replaces the value of an existing attribute or appends a new one.
func (el *element) set(name, value string) {
	for i, a := range el.attrs {
		if a.name == name {
			el.attrs[i].value = escape(value)
			el.attrs[i].bare = false
			return
		}
	}
	el.attrs = append(el.attrs, attr{name: name, value: escape(value), quote: '"'})
}

// filter keeps only the attributes for which keep returns true.
func (el *element) filter(keep func(name string) bool) {
	attrs := el.attrs[:0]
	for _, a := range el.attrs {
		if keep(a.name) {
			attrs = append(attrs, a)
		}
	}
	el.attrs = attrs
}

func (el *element) writeTo(w *bytes.Buffer) {
	w.WriteByte('<')
	w.WriteString(el.tag)
	for _, a := range el.attrs {
		writeAttr(w, a)
	}
}

func writeAttr(w *bytes.Buffer, a attr) {
	w.WriteByte(' ')
	w.WriteString(a.name)
	if a.bare {
		return
	}
	q := a.quote
	if q == 0 {
		q = '"'
	}
	w.WriteByte('=')
	w.WriteByte(q)
	w.WriteString(a.value)
	w.WriteByte(q)
}

// rewrite streams the SVG document through the XML lexer and hands every element
// start tag to fn, which may change its attributes. Everything else is copied verbatim.
func rewrite(buf []byte, fn func(*element) error) ([]byte, error) {
	var (
		out  bytes.Buffer
		el   *element
		seen bool
	)
	out.Grow(len(buf) + 64)

	l := xml.NewLexer(parse.NewInput(bytes.NewReader(buf)))
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); err != io.EOF {
				return nil, &SyntaxError{Err: err}
			}
			if el != nil || !seen {
				return nil, &SyntaxError{Err: io.ErrUnexpectedEOF}
			}
			return out.Bytes(), nil
		case xml.StartTagToken:
			el = &element{tag: string(l.Text()), root: !seen}
			seen = true
		case xml.AttributeToken:
			a := newAttr(l.Text(), l.AttrVal())
			if el == nil {
				// attributes of a processing instruction, e.g. <?xml version="1.0"?>
				writeAttr(&out, a)
				continue
			}
			el.attrs = append(el.attrs, a)
		case xml.StartTagCloseToken, xml.StartTagCloseVoidToken:
			if el != nil {
				if err := fn(el); err != nil {
					return nil, err
				}
				el.writeTo(&out)
				el = nil
			}
			out.Write(data)
		default:
			out.Write(data)
		}
	}
}

func newAttr(name, val []byte) attr {
	a := attr{name: string(name)}
	if val == nil {
		a.bare = true
		return a
	}
	if n := len(val); n >= 2 && (val[0] == '"' || val[0] == '\'') && val[n-1] == val[0] {
		a.quote = val[0]
		a.value = string(val[1 : n-1])
		return a
	}
	a.value = string(val)
	return a
}

var escaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `"`, "&quot;")

func escape(s string) string {
	return escaper.Replace(s)
}
