// Package willowtheme loads XML theme files into a tree of named, typed
// parameters and the images, fonts and cursors they reference, and draws
// those images through a pluggable [Renderer].
//
// # Quick start
//
// Load a theme with [LoadTheme], passing the file system the theme lives in
// and a renderer. [EbitenRenderer] draws onto an Ebitengine image:
//
//	r := willowtheme.NewEbitenRenderer(os.DirFS("assets"))
//	tm, err := willowtheme.LoadTheme(os.DirFS("assets"), "theme.xml", r, willowtheme.LoadConfig{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer tm.Destroy()
//
// Inside Draw, point the renderer at the screen and draw images looked up
// from a theme:
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.renderer.SetTarget(screen)
//		button := g.theme.FindThemeInfo("mainmenu.button")
//		button.Image("background").Draw(g.state, 10, 10, 120, 32)
//	}
//
// # Themes
//
// A theme file holds <images>, <fontDef>, <inputMapDef>, <constantDef>,
// <include> and <theme> elements. Themes nest; [ThemeManager.FindThemeInfo]
// resolves dotted paths such as "mainmenu.button". A theme declared with
// ref copies another theme and may override it. A <theme merge="true">
// extends the child of the same name instead of replacing it. An unnamed
// child such as <theme name="" ref="common.*"/> is a wildcard import:
// children not defined locally are looked up under "common.".
//
// Parameters are read with typed getters on [ThemeInfo], for example
// [ParameterMap.Image], [ParameterMap.Int] and [ParameterMap.Border].
// Missing keys and kind mismatches are reported once through the
// [DiagnosticFunc] given in [LoadConfig]; the getter returns its default.
//
// # Images
//
// Images are cut from textures (<area>) and combined into 9-patches,
// grids, layered compositions, state selections and animations. An
// [AnimationState] supplies the boolean flags and timers that drive
// [StateSelectImage] and [AnimatedImage]. State conditions are written as
// expressions over flag names:
//
//	<select name="button">
//	    <alias ref="button.pressed" if="pressed"/>
//	    <alias ref="button.hover" if="hover + !disabled"/>
//	    <alias ref="button.normal"/>
//	</select>
//
// # Errors
//
// Fatal problems are returned as *[ThemeError], which carries the file
// position and the chain of <include> sites that led to it.
package willowtheme
