package willowtheme

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type xmlEvent uint8

const (
	xmlStartTag xmlEvent = iota
	xmlEndTag
	xmlEndDocument
)

// xmlParser is a pull parser over encoding/xml that walks a document one
// tag at a time, tracks which attributes were consumed, and turns every
// failure into a *ThemeError carrying the source position.
type xmlParser struct {
	dec    *xml.Decoder
	source string
	diag   *diagnostics

	event xmlEvent
	name  string
	attrs []xml.Attr
	used  []bool
	pos   Position
}

func newXMLParser(r io.Reader, source string, diag *diagnostics) *xmlParser {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	return &xmlParser{dec: dec, source: source, diag: diag, pos: Position{Source: source}}
}

func (p *xmlParser) position() Position {
	return p.pos
}

func (p *xmlParser) errorf(format string, args ...any) *ThemeError {
	return &ThemeError{Position: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *xmlParser) wrap(err error, format string, args ...any) *ThemeError {
	var te *ThemeError
	if errors.As(err, &te) {
		return te
	}
	return &ThemeError{Position: p.pos, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (p *xmlParser) warnf(format string, args ...any) {
	p.diag.report(ParseWarning, p.pos, format, args...)
}

// token reads the next raw token and records its start position.
func (p *xmlParser) token() (xml.Token, error) {
	line, col := p.dec.InputPos()
	tok, err := p.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &ThemeError{Position: Position{Source: p.source, Line: line, Column: col}, Msg: "malformed XML", Err: err}
	}
	p.pos = Position{Source: p.source, Line: line, Column: col}
	return tok, nil
}

func (p *xmlParser) setStart(se xml.StartElement) {
	p.event = xmlStartTag
	p.name = se.Name.Local
	p.attrs = se.Attr
	p.used = make([]bool, len(se.Attr))
}

func (p *xmlParser) setEnd(ee xml.EndElement) {
	p.event = xmlEndTag
	p.name = ee.Name.Local
	p.attrs = nil
	p.used = nil
}

func (p *xmlParser) leaveStartTag() {
	if p.event != xmlStartTag {
		return
	}
	for i, a := range p.attrs {
		if !p.used[i] && a.Name.Space == "" {
			p.warnf("unused attribute %q on <%s>", a.Name.Local, p.name)
		}
	}
}

// nextTag advances to the next start or end tag, skipping whitespace,
// comments and processing instructions. Non-whitespace text is an error.
func (p *xmlParser) nextTag() error {
	p.leaveStartTag()
	for {
		tok, err := p.token()
		if err == io.EOF {
			p.event = xmlEndDocument
			p.name = ""
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.setStart(t)
			return nil
		case xml.EndElement:
			p.setEnd(t)
			return nil
		case xml.CharData:
			if len(strings.TrimSpace(string(t))) != 0 {
				return p.errorf("unexpected text %q", strings.TrimSpace(string(t)))
			}
		}
	}
}

// nextText reads the text content of the current start tag and leaves the
// parser on its end tag.
func (p *xmlParser) nextText() (string, error) {
	if p.event != xmlStartTag {
		return "", p.errorf("expected start tag")
	}
	tag := p.name
	p.leaveStartTag()
	var b strings.Builder
	for {
		tok, err := p.token()
		if err == io.EOF {
			return "", p.errorf("unexpected end of document inside <%s>", tag)
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			return "", p.errorf("unexpected <%s> inside <%s>", t.Name.Local, tag)
		case xml.EndElement:
			p.setEnd(t)
			return strings.TrimSpace(b.String()), nil
		}
	}
}

func (p *xmlParser) isStartTag() bool { return p.event == xmlStartTag }
func (p *xmlParser) isEndTag() bool   { return p.event == xmlEndTag }

// require checks the current event. An empty name matches any tag.
func (p *xmlParser) require(event xmlEvent, name string) error {
	if p.event != event || (name != "" && p.name != name) {
		return p.errorf("expected %s, found %s", describeEvent(event, name), describeEvent(p.event, p.name))
	}
	return nil
}

func describeEvent(event xmlEvent, name string) string {
	switch event {
	case xmlStartTag:
		if name == "" {
			return "start tag"
		}
		return "<" + name + ">"
	case xmlEndTag:
		if name == "" {
			return "end tag"
		}
		return "</" + name + ">"
	default:
		return "end of document"
	}
}

func (p *xmlParser) unexpected() *ThemeError {
	return p.errorf("unexpected %s", describeEvent(p.event, p.name))
}

func (p *xmlParser) attr(name string) (string, bool) {
	for i, a := range p.attrs {
		if a.Name.Local == name && a.Name.Space == "" {
			p.used[i] = true
			return a.Value, true
		}
	}
	return "", false
}

func (p *xmlParser) attrNotNull(name string) (string, error) {
	v, ok := p.attr(name)
	if !ok {
		return "", p.errorf("missing attribute %q on <%s>", name, p.name)
	}
	return v, nil
}

// unusedAttrs returns the attributes not yet read, marking them used.
func (p *xmlParser) unusedAttrs() []xml.Attr {
	var out []xml.Attr
	for i, a := range p.attrs {
		if !p.used[i] {
			p.used[i] = true
			out = append(out, a)
		}
	}
	return out
}

func (p *xmlParser) parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, p.errorf("not a boolean: %q", value)
}

func (p *xmlParser) boolAttr(name string, def bool) (bool, error) {
	v, ok := p.attr(name)
	if !ok {
		return def, nil
	}
	return p.parseBool(v)
}

func (p *xmlParser) intAttr(name string) (int, error) {
	v, err := p.attrNotNull(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, p.wrap(err, "unable to parse attribute %q", name)
	}
	return n, nil
}

func (p *xmlParser) intAttrDefault(name string, def int) (int, error) {
	if _, ok := p.attr(name); !ok {
		return def, nil
	}
	return p.intAttr(name)
}

func (p *xmlParser) floatAttr(name string) (float64, error) {
	v, err := p.attrNotNull(name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, p.wrap(err, "unable to parse attribute %q", name)
	}
	return f, nil
}

func (p *xmlParser) floatAttrDefault(name string, def float64) (float64, error) {
	if _, ok := p.attr(name); !ok {
		return def, nil
	}
	return p.floatAttr(name)
}
