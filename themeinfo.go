package willowtheme

// ThemeInfo is a node of the theme tree: a named parameter scope with child
// themes. Both parameters and children cascade through the fallback
// installed by a ref or merge declaration.
type ThemeInfo struct {
	ParameterMap

	manager  *ThemeManager
	name     string
	parent   *ThemeInfo
	children cascadedMap[*ThemeInfo]

	// wildcardImportPath is a dotted prefix ("" or ending in ".") tried
	// for children that are not defined locally.
	wildcardImportPath string
	hasWildcardImport  bool

	maybeUsedFromWildcard bool
}

func newThemeInfo(manager *ThemeManager, name string, parent *ThemeInfo) *ThemeInfo {
	ti := &ThemeInfo{
		manager:               manager,
		name:                  name,
		parent:                parent,
		maybeUsedFromWildcard: true,
	}
	ti.ParameterMap = ParameterMap{diag: manager.diag, scope: ti.Path()}
	return ti
}

// Name returns the theme's own name.
func (ti *ThemeInfo) Name() string { return ti.name }

// Parent returns the enclosing theme, or nil for a top-level theme.
func (ti *ThemeInfo) Parent() *ThemeInfo { return ti.parent }

// Path returns the dotted path from the top-level theme.
func (ti *ThemeInfo) Path() string {
	if ti.parent == nil {
		return ti.name
	}
	return ti.parent.Path() + "." + ti.name
}

// ChildTheme returns the named child. Children not declared locally are
// looked up through the wildcard import, if any. A miss is reported once
// and returns nil.
func (ti *ThemeInfo) ChildTheme(name string) *ThemeInfo {
	return ti.childTheme(name, true)
}

// ChildNames returns the names of all children visible without wildcard
// resolution.
func (ti *ThemeInfo) ChildNames() []string {
	return ti.children.keys()
}

func (ti *ThemeInfo) childTheme(name string, useFallback bool) *ThemeInfo {
	child := ti.lookupChild(name, useFallback, 0)
	if child == nil && useFallback {
		ti.manager.diag.once(ti.Path()+"\x00"+name, MissingChildTheme,
			"%s has no child theme %q%s", ti.Path(), name, suggestion(name, ti.ChildNames()))
	}
	return child
}

// lookupChild resolves a child without reporting. depth counts the
// wildcard imports followed so far.
func (ti *ThemeInfo) lookupChild(name string, useFallback bool, depth int) *ThemeInfo {
	if child, ok := ti.children.get(name); ok {
		return child
	}
	if !ti.hasWildcardImport {
		return nil
	}
	return ti.manager.resolveWildcard(ti.wildcardImportPath, name, useFallback, depth)
}

// theme returns a declared child without wildcard resolution or reporting.
func (ti *ThemeInfo) theme(name string) *ThemeInfo {
	child, _ := ti.children.get(name)
	return child
}

func (ti *ThemeInfo) putTheme(name string, child *ThemeInfo) {
	ti.children.put(name, child)
}

// copyFrom makes src's parameters, children and wildcard import visible in
// ti. Entries declared later on ti shadow them.
func (ti *ThemeInfo) copyFrom(src *ThemeInfo) {
	ti.ParameterMap.Copy(&src.ParameterMap)
	ti.children.collapseAndSetFallback(&src.children)
	if src.hasWildcardImport {
		ti.wildcardImportPath = src.wildcardImportPath
		ti.hasWildcardImport = true
	}
}
