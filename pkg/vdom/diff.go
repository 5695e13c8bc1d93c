package vdom

// Diff compares two Element trees and returns the patches needed to
// transform old into next. Diffing a tree against itself yields an
// empty patch list. Neither input is mutated.
//
// Attributes and style properties are diffed as mappings, key by key.
// Children are diffed positionally; there is no key-based matching, so
// a reordered child shows up as a remove+insert pair.
func Diff(old, next *Element) []Patch {
	var patches []Patch
	diff(old, next, nil, &patches)
	return patches
}

// diff recursively compares nodes and appends patches. path addresses
// the old node within the root tree.
func diff(old, next *Element, path []int, patches *[]Patch) {
	if old == nil && next == nil {
		return
	}

	// Appearance or disappearance of a whole node at this position is a
	// replacement; insert/remove of children is handled by the parent.
	if old == nil || next == nil {
		*patches = append(*patches, NewReplacePatch(clonePath(path), next.Clone()))
		return
	}

	if old.Kind != next.Kind {
		*patches = append(*patches, NewReplacePatch(clonePath(path), next.Clone()))
		return
	}

	if old.Kind == KindText {
		if old.Text != next.Text {
			*patches = append(*patches, NewSetTextPatch(clonePath(path), next.Text))
		}
		return
	}

	// Different tag - replace the node entirely, no finer diff attempted
	if old.Tag != next.Tag {
		*patches = append(*patches, NewReplacePatch(clonePath(path), next.Clone()))
		return
	}

	diffAttrs(old, next, path, patches)
	diffStyle(old, next, path, patches)
	diffChildren(old, next, path, patches)
}

// diffAttrs compares attributes key by key.
func diffAttrs(old, next *Element, path []int, patches *[]Patch) {
	for _, a := range old.Attrs {
		nv, exists := next.Attr(a.Key)
		if !exists {
			*patches = append(*patches, NewRemoveAttrPatch(clonePath(path), a.Key))
		} else if !valueEqual(a.Value, nv) {
			*patches = append(*patches, NewSetAttrPatch(clonePath(path), a.Key, nv))
		}
	}
	for _, a := range next.Attrs {
		if _, exists := old.Attr(a.Key); !exists {
			*patches = append(*patches, NewSetAttrPatch(clonePath(path), a.Key, a.Value))
		}
	}
}

// diffStyle compares the nested style map property by property, so an
// animation that only moves width each frame produces a single SetStyle.
func diffStyle(old, next *Element, path []int, patches *[]Patch) {
	for _, p := range old.Style {
		nv, exists := next.StyleProp(p.Name)
		if !exists {
			*patches = append(*patches, NewRemoveStylePatch(clonePath(path), p.Name))
		} else if !valueEqual(p.Value, nv) {
			*patches = append(*patches, NewSetStylePatch(clonePath(path), p.Name, nv))
		}
	}
	for _, p := range next.Style {
		if _, exists := old.StyleProp(p.Name); !exists {
			*patches = append(*patches, NewSetStylePatch(clonePath(path), p.Name, p.Value))
		}
	}
}

// diffChildren compares children positionally (index-aligned).
func diffChildren(old, next *Element, path []int, patches *[]Patch) {
	// The nil/empty distinction is part of the document. Inserting into
	// a nil list yields a non-nil list, so additions need no special
	// case, but a flip where next ends up childless (null vs []) can
	// only be carried by a replacement.
	if (old.Children == nil) != (next.Children == nil) && len(next.Children) == 0 {
		*patches = append(*patches, NewReplacePatch(clonePath(path), next.Clone()))
		return
	}

	common := len(old.Children)
	if len(next.Children) < common {
		common = len(next.Children)
	}

	for i := 0; i < common; i++ {
		diff(old.Children[i], next.Children[i], append(path, i), patches)
	}

	// Extra children in next: insert in ascending order
	for i := common; i < len(next.Children); i++ {
		*patches = append(*patches, NewInsertChildPatch(clonePath(path), i, next.Children[i].Clone()))
	}

	// Extra children in old: remove from the tail down so earlier
	// indexes stay valid while patches apply in order
	for i := len(old.Children) - 1; i >= common; i-- {
		*patches = append(*patches, NewRemoveChildPatch(clonePath(path), i))
	}
}

// clonePath copies a path so appends deeper in the walk cannot alias it.
func clonePath(path []int) []int {
	if path == nil {
		return nil
	}
	c := make([]int, len(path))
	copy(c, path)
	return c
}
