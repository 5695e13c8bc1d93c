package vdom

import (
	"errors"
	"fmt"
)

// Apply errors.
var (
	ErrBadPath  = errors.New("vdom: patch path does not resolve to a node")
	ErrBadPatch = errors.New("vdom: patch is not applicable to the target node")
)

// Apply applies an ordered patch list to a tree and returns the result
// as a new tree. The input tree is never mutated, so a failed patch
// leaves the caller's tree untouched.
//
// Applying Diff(old, next) to old yields a tree equal to next.
func Apply(root *Element, patches []Patch) (*Element, error) {
	result := root.Clone()
	for i := range patches {
		var err error
		result, err = applyOne(result, &patches[i])
		if err != nil {
			return nil, fmt.Errorf("applying patch %d (%s): %w", i, patches[i].Op, err)
		}
	}
	return result, nil
}

// applyOne applies a single patch to the (owned, mutable) tree.
func applyOne(root *Element, p *Patch) (*Element, error) {
	if p.Op == PatchReplace && len(p.Path) == 0 {
		return p.Node.Clone(), nil
	}

	target, err := resolve(root, p.Path)
	if err != nil {
		return nil, err
	}

	switch p.Op {
	case PatchReplace:
		// Non-root replace: rewrite the parent's child slot
		parent, err := resolve(root, p.Path[:len(p.Path)-1])
		if err != nil {
			return nil, err
		}
		idx := p.Path[len(p.Path)-1]
		if idx < 0 || idx >= len(parent.Children) {
			return nil, ErrBadPath
		}
		parent.Children[idx] = p.Node.Clone()

	case PatchSetAttr:
		if target.Kind != KindElement {
			return nil, ErrBadPatch
		}
		target.Attrs = setAttr(target.Attrs, Attr{Key: p.Key, Value: p.Value})

	case PatchRemoveAttr:
		if target.Kind != KindElement {
			return nil, ErrBadPatch
		}
		target.Attrs = removeAttr(target.Attrs, p.Key)

	case PatchSetStyle:
		if target.Kind != KindElement {
			return nil, ErrBadPatch
		}
		target.Style = setStyle(target.Style, StyleProp{Name: p.Key, Value: p.Value})

	case PatchRemoveStyle:
		if target.Kind != KindElement {
			return nil, ErrBadPatch
		}
		target.Style = removeStyle(target.Style, p.Key)

	case PatchSetText:
		if target.Kind != KindText {
			return nil, ErrBadPatch
		}
		text, ok := p.Value.(string)
		if !ok {
			return nil, ErrBadPatch
		}
		target.Text = text

	case PatchInsertChild:
		if target.Kind != KindElement {
			return nil, ErrBadPatch
		}
		if p.Index < 0 || p.Index > len(target.Children) {
			return nil, ErrBadPath
		}
		children := append(target.Children[:p.Index:p.Index], p.Node.Clone())
		target.Children = append(children, target.Children[p.Index:]...)

	case PatchRemoveChild:
		if target.Kind != KindElement {
			return nil, ErrBadPatch
		}
		if p.Index < 0 || p.Index >= len(target.Children) {
			return nil, ErrBadPath
		}
		target.Children = append(target.Children[:p.Index], target.Children[p.Index+1:]...)

	default:
		return nil, fmt.Errorf("vdom: unknown patch op 0x%02x", uint8(p.Op))
	}

	return root, nil
}

// resolve walks a child-index path from the root.
func resolve(root *Element, path []int) (*Element, error) {
	node := root
	for _, idx := range path {
		if node == nil || node.Kind != KindElement {
			return nil, ErrBadPath
		}
		if idx < 0 || idx >= len(node.Children) {
			return nil, ErrBadPath
		}
		node = node.Children[idx]
	}
	if node == nil {
		return nil, ErrBadPath
	}
	return node, nil
}

// removeAttr deletes an attribute by key, preserving the order of the rest.
func removeAttr(attrs []Attr, key string) []Attr {
	for i := range attrs {
		if attrs[i].Key == key {
			return append(attrs[:i], attrs[i+1:]...)
		}
	}
	return attrs
}

// removeStyle deletes a style property by name.
func removeStyle(style Style, name string) Style {
	for i := range style {
		if style[i].Name == name {
			return append(style[:i], style[i+1:]...)
		}
	}
	return style
}
