package willowtheme

import (
	"errors"
	"strings"
	"testing"
)

func newTestParser(src string, rec *diagRecorder) *xmlParser {
	return newXMLParser(strings.NewReader(src), "t.xml", newDiagnostics(rec.sink))
}

func TestXMLParser_Walk(t *testing.T) {
	rec := &diagRecorder{}
	p := newTestParser("<root a=\"1\" b=\"x\">\n  <child n=\"2.5\"/>\n  <text>  hi  </text>\n</root>", rec)

	if err := p.nextTag(); err != nil {
		t.Fatal(err)
	}
	if err := p.require(xmlStartTag, "root"); err != nil {
		t.Fatal(err)
	}
	if n, err := p.intAttr("a"); err != nil || n != 1 {
		t.Errorf("intAttr(a) = %d, %v", n, err)
	}
	var te *ThemeError
	if _, err := p.intAttr("b"); !errors.As(err, &te) {
		t.Errorf("intAttr(b) error = %v, want *ThemeError", err)
	}
	if n, err := p.intAttrDefault("missing", 9); err != nil || n != 9 {
		t.Errorf("intAttrDefault = %d, %v", n, err)
	}

	if err := p.nextTag(); err != nil {
		t.Fatal(err)
	}
	if got := p.position(); got != (Position{Source: "t.xml", Line: 2, Column: 3}) {
		t.Errorf("child position = %v", got)
	}
	if f, err := p.floatAttr("n"); err != nil || f != 2.5 {
		t.Errorf("floatAttr(n) = %v, %v", f, err)
	}
	if err := p.nextTag(); err != nil || !p.isEndTag() {
		t.Fatalf("expected </child>, err %v", err)
	}

	if err := p.nextTag(); err != nil {
		t.Fatal(err)
	}
	text, err := p.nextText()
	if err != nil || text != "hi" {
		t.Errorf("nextText = %q, %v", text, err)
	}
	if err := p.require(xmlEndTag, "text"); err != nil {
		t.Error(err)
	}
	if err := p.nextTag(); err != nil || p.require(xmlEndTag, "root") != nil {
		t.Fatalf("expected </root>, err %v", err)
	}
	if err := p.nextTag(); err != nil || p.event != xmlEndDocument {
		t.Errorf("expected end of document, err %v", err)
	}
	if len(rec.list) != 0 {
		t.Errorf("unexpected diagnostics: %v", rec.list)
	}
}

func TestXMLParser_UnusedAttributeWarns(t *testing.T) {
	rec := &diagRecorder{}
	p := newTestParser(`<root used="1" typo="2"/>`, rec)
	p.nextTag()
	p.attr("used")
	p.nextTag()
	if rec.count(ParseWarning) != 1 || !strings.Contains(rec.list[0].Message, `"typo"`) {
		t.Errorf("diagnostics = %v", rec.list)
	}
}

func TestXMLParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"stray text", "<root>oops</root>", "unexpected text"},
		{"unclosed", "<root>", "malformed XML"},
		{"nested in text", "<root><a><b/></a></root>", "unexpected <b> inside <a>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(tt.src, &diagRecorder{})
			err := p.nextTag()
			if err == nil {
				err = p.nextTag()
			}
			if err == nil && p.isStartTag() {
				_, err = p.nextText()
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestXMLParser_RequireAndBool(t *testing.T) {
	p := newTestParser(`<root flag="yes" off="0" bad="maybe"/>`, &diagRecorder{})
	p.nextTag()
	if err := p.require(xmlStartTag, "other"); err == nil || !strings.Contains(err.Error(), "expected <other>, found <root>") {
		t.Errorf("require = %v", err)
	}
	if v, err := p.boolAttr("flag", false); err != nil || !v {
		t.Errorf("flag = %v, %v", v, err)
	}
	if v, err := p.boolAttr("off", true); err != nil || v {
		t.Errorf("off = %v, %v", v, err)
	}
	if v, err := p.boolAttr("absent", true); err != nil || !v {
		t.Errorf("absent = %v, %v", v, err)
	}
	if _, err := p.boolAttr("bad", false); err == nil {
		t.Error("expected error for maybe")
	}
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		src     string
		hover   bool
		wantNil bool
		wantErr bool
	}{
		{`<a if="hover"/>`, true, false, false},
		{`<a unless="hover"/>`, false, false, false},
		{`<a/>`, false, true, false},
		{`<a if="hover" unless="pressed"/>`, false, false, true},
		{`<a if="hover+"/>`, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p := newTestParser(tt.src, &diagRecorder{})
			p.nextTag()
			e, err := parseCondition(p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if tt.wantErr {
				return
			}
			if (e == nil) != tt.wantNil {
				t.Fatalf("expr = %v", e)
			}
			if e != nil && e.Evaluate(state("hover")) != tt.hover {
				t.Errorf("Evaluate(hover) = %v, want %v", !tt.hover, tt.hover)
			}
		})
	}
}

func TestCheckNameNotEmpty(t *testing.T) {
	p := newTestParser(`<a/>`, &diagRecorder{})
	p.nextTag()
	for name, ok := range map[string]bool{"button": true, "a.b": true, "": false, "none": false, "x*": false, "y?": false} {
		if err := checkNameNotEmpty(p, name); (err == nil) != ok {
			t.Errorf("checkNameNotEmpty(%q) = %v", name, err)
		}
	}
}

func TestParseIntArray(t *testing.T) {
	got, err := parseIntArray(" 1, 2,3 ")
	if err != nil || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("parseIntArray = %v, %v", got, err)
	}
	if _, err := parseIntArray("1,,2"); err == nil {
		t.Error("expected error for empty entry")
	}
}
