package willowtheme

import (
	"errors"
	"io/fs"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
)

// imagesFS wraps body in an <images> element over the 64x64 tex.png.
func imagesFS(body string) fstest.MapFS {
	return themeFS(`<images file="tex.png">` + body + `</images>`)
}

func cellSources(t *testing.T, img Image) []string {
	t.Helper()
	g, ok := img.(*GridImage)
	if !ok {
		t.Fatalf("image is %T, want *GridImage", img)
	}
	var out []string
	for _, c := range g.Cells() {
		switch c := c.(type) {
		case *fakeArea:
			out = append(out, c.src)
		case *EmptyImage:
			out = append(out, "empty")
		default:
			t.Fatalf("cell is %T", c)
		}
	}
	return out
}

func TestImages_Area(t *testing.T) {
	tm, r, rec := loadTestTheme(t, imagesFS(`
		<area name="a" xywh="0,0,16,8"/>
		<area name="all" xywh="*"/>
		<area name="red" xywh="0,0,4,4" tint="#F00"/>
		<area name="flat" xywh="0,0,0,4"/>
	`))
	a, ok := tm.Image("a").(*fakeArea)
	if !ok || a.src != "0,0,16,8" || a.Width() != 16 || a.Height() != 8 {
		t.Errorf("a = %+v", tm.Image("a"))
	}
	if all := tm.Image("all").(*fakeArea); all.src != "0,0,64,64" {
		t.Errorf("all = %s, want whole texture", all.src)
	}
	if red := tm.Image("red").(*fakeArea); red.tint != (Color{R: 1, A: 1}) {
		t.Errorf("red tint = %+v", red.tint)
	}
	if flat, ok := tm.Image("flat").(*EmptyImage); !ok || flat.H != 4 {
		t.Errorf("flat = %#v, want 0x4 empty image", tm.Image("flat"))
	}
	if len(r.textures) != 1 || !r.textures[0].done {
		t.Error("texture should be loaded once and finalized")
	}
	if len(rec.list) != 0 {
		t.Errorf("unexpected diagnostics: %v", rec.list)
	}
}

func TestImages_AreaOutsideTextureIsClamped(t *testing.T) {
	tm, _, rec := loadTestTheme(t, imagesFS(`<area name="edge" xywh="60,0,10,10"/>`))
	if got := tm.Image("edge").(*fakeArea).src; got != "60,0,4,10" {
		t.Errorf("edge = %s, want 60,0,4,10", got)
	}
	if rec.count(ParseWarning) != 1 || !strings.Contains(rec.list[0].Message, "texture partly outside") {
		t.Errorf("diagnostics = %v", rec.list)
	}
}

func TestImages_NinePatch(t *testing.T) {
	tm, _, _ := loadTestTheme(t, imagesFS(`
		<area name="frame" xywh="0,0,32,32" splitx="8,24" splity="8,24" border="8"/>
		<area name="edges" xywh="0,0,32,32" splitx="l8,r8" splity="t8,b8" nocenter="true"/>
	`))
	want := []string{
		"0,0,8,8", "8,0,16,8", "24,0,8,8",
		"0,8,8,16", "8,8,16,16", "24,8,8,16",
		"0,24,8,8", "8,24,16,8", "24,24,8,8",
	}
	if got := cellSources(t, tm.Image("frame")); !reflect.DeepEqual(got, want) {
		t.Errorf("frame cells = %v", got)
	}
	if b, ok := imageBorder(tm.Image("frame")); !ok || b != (Border{Top: 8, Left: 8, Bottom: 8, Right: 8}) {
		t.Errorf("frame border = %+v, %v", b, ok)
	}
	edges := cellSources(t, tm.Image("edges"))
	want[4] = "empty"
	if !reflect.DeepEqual(edges, want) {
		t.Errorf("edges cells = %v", edges)
	}
	if c := tm.Image("edges").(*GridImage).Cells()[4].(*EmptyImage); c.W != 16 || c.H != 16 {
		t.Errorf("empty center = %dx%d, want 16x16", c.W, c.H)
	}
}

func TestImages_RotatedSplit(t *testing.T) {
	tm, _, _ := loadTestTheme(t, imagesFS(`
		<area name="r90" xywh="0,0,32,8" splitx="8,24" rot="90"/>
		<area name="r180" xywh="0,0,32,8" splitx="8,24" rot="180"/>
	`))
	r90 := tm.Image("r90").(*GridImage)
	if r90.Columns() != 1 || len(r90.Cells()) != 3 {
		t.Errorf("r90 grid has %d columns and %d cells, want 1 and 3", r90.Columns(), len(r90.Cells()))
	}
	if got := cellSources(t, r90); !reflect.DeepEqual(got, []string{"0,0,8,8", "8,0,16,8", "24,0,8,8"}) {
		t.Errorf("r90 cells = %v", got)
	}
	if a := r90.Cells()[1].(*fakeArea); a.rot != Rotation90 || a.Width() != 8 || a.Height() != 16 {
		t.Errorf("r90 middle cell = %+v", a)
	}
	if got := cellSources(t, tm.Image("r180")); !reflect.DeepEqual(got, []string{"24,0,8,8", "8,0,16,8", "0,0,8,8"}) {
		t.Errorf("r180 cells = %v", got)
	}
}

func TestRotatedIndexIsPermutation(t *testing.T) {
	for _, rot := range []Rotation{RotationNone, Rotation90, Rotation180, Rotation270} {
		for _, dim := range [][2]int{{3, 3}, {1, 3}, {3, 1}} {
			rows, cols := dim[0], dim[1]
			seen := make(map[int]bool)
			for r := 0; r < rows; r++ {
				for c := 0; c < cols; c++ {
					idx := rotatedIndex(rot, r, c, rows, cols)
					if idx < 0 || idx >= rows*cols || seen[idx] {
						t.Errorf("rot %d %dx%d: index %d for (%d,%d) invalid or repeated", rot.Degrees(), rows, cols, idx, r, c)
					}
					seen[idx] = true
				}
			}
		}
	}
}

func TestParseSplit2(t *testing.T) {
	tests := []struct {
		attr    string
		size    int
		want    []int
		wantErr bool
	}{
		{"8,24", 32, []int{0, 8, 24, 32}, false},
		{"l8, r8", 32, []int{0, 8, 24, 32}, false},
		{"b4,2", 10, []int{0, 2, 6, 10}, false},
		{"0,50", 10, []int{0, 0, 10, 10}, false},
		{"1", 10, nil, true},
		{"a,b", 10, nil, true},
		{",3", 10, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			p := newTestParser(`<a s="`+tt.attr+`"/>`, &diagRecorder{})
			p.nextTag()
			got, err := parseSplit2(p, "s", tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseSplit2 = %v, want %v", got, tt.want)
			}
		})
	}
	p := newTestParser(`<a/>`, &diagRecorder{})
	p.nextTag()
	if got, err := parseSplit2(p, "s", 10); got != nil || err != nil {
		t.Errorf("absent attribute = %v, %v", got, err)
	}
}

const nestedSelect = `
	<select name="n">
		<select if="hover">
			<area if="pressed" xywh="0,0,4,4"/>
			<area xywh="4,0,4,4"/>
		</select>
		<area xywh="8,0,4,4"/>
	</select>`

func TestImages_Select(t *testing.T) {
	tm, r, _ := loadTestTheme(t, imagesFS(`
		<select name="btn" border="2">
			<area if="pressed" xywh="0,0,4,4"/>
			<area if="hover" xywh="4,0,4,4"/>
			<area xywh="8,0,4,4"/>
		</select>` + nestedSelect))
	sel, ok := tm.Image("btn").(*StateSelectImage)
	if !ok {
		t.Fatalf("btn is %T", tm.Image("btn"))
	}
	if len(sel.Images()) != 3 || sel.Select().NumExpressions() != 2 {
		t.Errorf("btn has %d images and %d expressions", len(sel.Images()), sel.Select().NumExpressions())
	}
	if b, _ := sel.Border(); b.Top != 2 {
		t.Errorf("btn border = %+v", b)
	}
	sel.Draw(state("hover"), 0, 0, 4, 4)
	if got := r.drawn(); got[0] != "4,0,4,4" {
		t.Errorf("hover drew %v", got)
	}

	nested := tm.Image("n").(*StateSelectImage)
	if len(nested.Images()) != 2 {
		t.Errorf("without optimizer the inner select stays nested, got %d images", len(nested.Images()))
	}
	if _, ok := nested.Images()[0].(*StateSelectImage); !ok {
		t.Errorf("first branch is %T", nested.Images()[0])
	}
}

func TestImages_SelectOptimizerInlines(t *testing.T) {
	r := newFakeRenderer()
	tm, err := LoadTheme(imagesFS(nestedSelect), "theme.xml", r, LoadConfig{UseOptimizer: true, Diagnostics: func(Diagnostic) {}})
	if err != nil {
		t.Fatal(err)
	}
	sel := tm.Image("n").(*StateSelectImage)
	if len(sel.Images()) != 3 || sel.Select().NumExpressions() != 2 {
		t.Fatalf("inlined select has %d images and %d expressions", len(sel.Images()), sel.Select().NumExpressions())
	}
	tests := []struct {
		flags []StateKey
		want  string
	}{
		{[]StateKey{"hover", "pressed"}, "0,0,4,4"},
		{[]StateKey{"hover"}, "4,0,4,4"},
		{[]StateKey{"pressed"}, "8,0,4,4"},
		{nil, "8,0,4,4"},
	}
	for _, tt := range tests {
		r.draws = nil
		sel.Draw(state(tt.flags...), 0, 0, 4, 4)
		if got := r.drawn(); len(got) != 1 || got[0] != tt.want {
			t.Errorf("flags %v drew %v, want %s", tt.flags, got, tt.want)
		}
	}
}

func TestInlineSelectWithoutInnerDefault(t *testing.T) {
	r := newFakeRenderer()
	inner := NewStateSelectImage(NewStateSelect(mustExpr(t, "pressed")), BorderZero, testArea(r, "p", 1, 1))
	images, conds := inlineSelect(inner, mustExpr(t, "hover"), nil, nil)
	if len(images) != 2 || len(conds) != 2 || images[1] != None {
		t.Fatalf("images %v conds %v, want a None guard for the outer condition", images, conds)
	}
	outer := NewStateSelectImage(NewStateSelect(conds...), BorderZero, append(images, testArea(r, "default", 1, 1))...)
	outer.Draw(state("hover"), 0, 0, 1, 1)
	if len(r.draws) != 0 {
		t.Errorf("hover alone should draw nothing, drew %v", r.drawn())
	}
}

func TestImages_SelectWithoutConditionWarns(t *testing.T) {
	tm, _, rec := loadTestTheme(t, imagesFS(`<select name="s"><area xywh="0,0,4,4"/></select>`))
	if _, ok := tm.Image("s").(*fakeArea); !ok {
		t.Errorf("s is %T, want the single area", tm.Image("s"))
	}
	if rec.count(ParseWarning) != 1 {
		t.Errorf("diagnostics = %v", rec.list)
	}
}

func TestImages_ComposedAndAlias(t *testing.T) {
	tm, _, _ := loadTestTheme(t, imagesFS(`
		<area name="a" xywh="0,0,8,8"/>
		<composed name="c">
			<alias ref="a"/>
			<area xywh="8,0,4,4"/>
		</composed>
		<composed name="one"><area xywh="8,0,4,4"/></composed>
		<composed name="zero"></composed>
		<alias name="b" ref="a"/>
		<alias name="t" ref="a" tint="#F00"/>
	`))
	c, ok := tm.Image("c").(*ComposedImage)
	if !ok || len(c.Layers()) != 2 || c.Width() != 8 {
		t.Errorf("c = %#v", tm.Image("c"))
	}
	if _, ok := tm.Image("one").(*fakeArea); !ok {
		t.Errorf("one is %T, want its only layer", tm.Image("one"))
	}
	if tm.Image("zero") != None {
		t.Errorf("zero = %#v, want None", tm.Image("zero"))
	}
	if tm.Image("b") != tm.Image("a") {
		t.Error("alias should share the referenced image")
	}
	if tint := tm.Image("t").(*fakeArea).tint; tint != (Color{R: 1, A: 1}) {
		t.Errorf("tinted alias = %+v", tint)
	}
}

func TestImages_Adjustments(t *testing.T) {
	tm, r, _ := loadTestTheme(t, themeFS(`
		<constantDef name="pad"><int>2</int></constantDef>
		<images file="tex.png">
			<area name="inset" xywh="0,0,4,4" inset="pad"/>
			<area name="hoverOnly" xywh="0,0,4,4" if="hover"/>
			<area name="notHover" xywh="0,0,4,4" unless="hover"/>
			<area name="tiles" xywh="0,0,4,4" repeatX="true"/>
			<area name="fixed" xywh="0,0,4,4" sizeOverwriteH="pad * 5" center="true"/>
		</images>`))
	if img := tm.Image("inset"); img.Width() != 8 || img.Height() != 8 {
		t.Errorf("inset size = %dx%d, want 8x8", img.Width(), img.Height())
	}
	tm.Image("hoverOnly").Draw(state(), 0, 0, 4, 4)
	tm.Image("notHover").Draw(state("hover"), 0, 0, 4, 4)
	if len(r.draws) != 0 {
		t.Errorf("conditional images drew %v", r.drawn())
	}
	if _, ok := tm.Image("tiles").(*RepeatImage); !ok {
		t.Errorf("tiles is %T", tm.Image("tiles"))
	}
	if w := tm.Image("fixed").Width(); w != 10 {
		t.Errorf("fixed width = %d, want 10", w)
	}
}

func TestImages_Grid(t *testing.T) {
	tm, _, _ := loadTestTheme(t, imagesFS(`
		<grid name="g" weightsX="1,1" weightsY="1">
			<area xywh="0,0,4,4"/>
			<area xywh="4,0,4,4"/>
		</grid>`))
	g, ok := tm.Image("g").(*GridImage)
	if !ok || g.Columns() != 2 || g.Width() != 8 {
		t.Errorf("g = %#v", tm.Image("g"))
	}

	tests := map[string]string{
		"too many sub images":   `<grid name="g" weightsX="1" weightsY="1"><area xywh="0,0,4,4"/><area xywh="0,0,4,4"/></grid>`,
		"not enough sub images": `<grid name="g" weightsX="1,1" weightsY="1"><area xywh="0,0,4,4"/></grid>`,
		"weightsX":              `<grid name="g" weightsX="0" weightsY="1"><area xywh="0,0,4,4"/></grid>`,
	}
	for want, body := range tests {
		t.Run(want, func(t *testing.T) {
			if te := loadThemeError(t, imagesFS(body)); !strings.Contains(te.Error(), want) {
				t.Errorf("error = %v, want containing %q", te, want)
			}
		})
	}
}

func TestImages_Animation(t *testing.T) {
	tm, r, rec := loadTestTheme(t, imagesFS(`
		<area name="a" xywh="0,0,4,4"/>
		<animation name="anim" timeSource="time">
			<frame duration="100" ref="a"/>
			<frames xywh="8,0,4,4" duration="50" count="2" offsetx="4"/>
		</animation>
		<animation name="late" timeSource="time">
			<repeat><frame duration="10" ref="a"/></repeat>
			<frame duration="10" ref="a"/>
		</animation>`))
	anim, ok := tm.Image("anim").(*AnimatedImage)
	if !ok || anim.TimeSource() != "time" {
		t.Fatalf("anim = %#v", tm.Image("anim"))
	}
	for ms, want := range map[int]string{0: "0,0,4,4", 120: "8,0,4,4", 170: "12,0,4,4", 200: "0,0,4,4"} {
		r.draws = nil
		anim.Draw(timeState(ms), 0, 0, 4, 4)
		if got := r.drawn(); len(got) != 1 || got[0] != want {
			t.Errorf("t=%d drew %v, want %s", ms, got, want)
		}
	}
	if rec.count(ParseWarning) != 1 || !strings.Contains(rec.list[0].Message, "endless repeat") {
		t.Errorf("diagnostics = %v", rec.list)
	}
}

func TestImages_AnimationErrors(t *testing.T) {
	tests := map[string]string{
		"timeSource":      `<animation name="x"><frames xywh="0,0,4,4" duration="10" count="1"/></animation>`,
		"offsets":         `<animation name="x" timeSource="t"><frames xywh="0,0,4,4" duration="10" count="2"/></animation>`,
		"duration":        `<animation name="x" timeSource="t"><frames xywh="0,0,4,4" duration="0" count="1"/></animation>`,
		"repeat count":    `<animation name="x" timeSource="t"><repeat count="0"><frames xywh="0,0,4,4" duration="10" count="1"/></repeat></animation>`,
		"not found":       `<animation name="x" timeSource="t"><frame duration="10" ref="missing"/></animation>`,
		"rotation angle":  `<animation name="x" timeSource="t"><frames xywh="0,0,4,4" rot="45" duration="10" count="1"/></animation>`,
		"unexpected <zz>": `<animation name="x" timeSource="t"><zz/></animation>`,
	}
	for want, body := range tests {
		t.Run(want, func(t *testing.T) {
			if te := loadThemeError(t, imagesFS(body)); !strings.Contains(te.Error(), want) {
				t.Errorf("error = %v, want containing %q", te, want)
			}
		})
	}
}

func TestImages_Gradient(t *testing.T) {
	tm, r, _ := loadTestTheme(t, themeFS(`
		<constantDef name="top"><color>#123456</color></constantDef>
		<images>
			<gradient name="sky" type="vertical" wrap="clamp">
				<stop pos="0" color="top"/>
				<stop pos="1" color="white"/>
			</gradient>
		</images>`))
	if tm.Image("sky") == nil || len(r.gradients) != 1 {
		t.Fatal("gradient not created")
	}
	g := r.gradients[0]
	if g.Type != GradientVertical || g.Wrap != WrapClamp || len(g.Stops) != 2 {
		t.Errorf("gradient = %+v", g)
	}
	if want, _ := ParseColor("#123456"); g.Stops[0].Color != want {
		t.Errorf("first stop = %+v, want the constant color", g.Stops[0].Color)
	}

	te := loadThemeError(t, themeFS(`<images><gradient name="g" type="vertical"><stop pos="1" color="red"/><stop pos="0" color="red"/></gradient></images>`))
	if !strings.Contains(te.Error(), "must not be less") {
		t.Errorf("error = %v", te)
	}
}

func TestImages_Cursors(t *testing.T) {
	tm, _, _ := loadTestTheme(t, imagesFS(`
		<area name="arrow" xywh="0,0,16,16"/>
		<cursor name="hand" xywh="16,0,16,16" hotSpotX="2" hotSpotY="3"/>
		<cursor name="soft" xywh="16,0,16,16" hotSpotX="0" hotSpotY="0" imageRef="arrow"/>
		<cursor name="alias" ref="hand"/>
		<cursor name="none2" ref="inherit"/>
	`))
	hand, ok := tm.Cursor("hand").(*fakeCursor)
	if !ok || hand.x != 16 || hand.hotSpotX != 2 || hand.hotSpotY != 3 {
		t.Errorf("hand = %#v", tm.Cursor("hand"))
	}
	if soft := tm.Cursor("soft").(*fakeCursor); soft.image != tm.Image("arrow") {
		t.Error("soft cursor should carry its image reference")
	}
	if tm.Cursor("alias") != tm.Cursor("hand") {
		t.Error("cursor ref should share the cursor")
	}
	if tm.Cursor("inherit") != nil || tm.Cursor("none2") != nil {
		t.Error("inherit should resolve to nil")
	}
	if tm.Cursor("text") == nil || tm.Cursor("text").Shape() == OSDefaultCursor.Shape() {
		t.Error("built-in text cursor missing")
	}
}

func TestImages_Errors(t *testing.T) {
	tests := []struct {
		want string
		fsys fstest.MapFS
	}{
		{`image "a" already defined`, imagesFS(`<area name="a" xywh="0,0,1,1"/><area name="a" xywh="0,0,1,1"/>`)},
		{`cursor "text" already defined`, imagesFS(`<cursor name="text" xywh="0,0,1,1" hotSpotX="0" hotSpotY="0"/>`)},
		{"reserved name", imagesFS(`<area name="none" xywh="0,0,1,1"/>`)},
		{"can't create area outside", themeFS(`<images><area name="x" xywh="0,0,1,1"/></images>`)},
		{"xywh requires 4", imagesFS(`<area name="x" xywh="0,0,1"/>`)},
		{"'if' and 'unless'", imagesFS(`<area name="x" xywh="0,0,1,1" if="a" unless="b"/>`)},
		{`did you mean "button"`, imagesFS(`<area name="button" xywh="0,0,1,1"/><alias name="x" ref="buton"/>`)},
		{"wildcard mapping not allowed", imagesFS(`<alias name="x" ref="button.*"/>`)},
		{"unexpected <circle>", imagesFS(`<circle name="x"/>`)},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if te := loadThemeError(t, tt.fsys); !strings.Contains(te.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", te, tt.want)
			}
		})
	}
}

func TestImages_MissingTextureFile(t *testing.T) {
	te := loadThemeError(t, themeFS(`<images file="missing.png"></images>`))
	if !errors.Is(te, fs.ErrNotExist) {
		t.Errorf("error %v should wrap fs.ErrNotExist", te)
	}
	if te.Source != "theme.xml" || te.Line != 2 {
		t.Errorf("position = %v, want theme.xml line 2", te.Position)
	}
}
