package vdom

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchReplace     PatchOp = 0x01 // Replace the node entirely
	PatchSetAttr     PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr  PatchOp = 0x03 // Remove attribute
	PatchSetStyle    PatchOp = 0x04 // Set/update style property
	PatchRemoveStyle PatchOp = 0x05 // Remove style property
	PatchSetText     PatchOp = 0x06 // Update text leaf content
	PatchInsertChild PatchOp = 0x07 // Insert child at index
	PatchRemoveChild PatchOp = 0x08 // Remove child at index
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchReplace:
		return "Replace"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchSetStyle:
		return "SetStyle"
	case PatchRemoveStyle:
		return "RemoveStyle"
	case PatchSetText:
		return "SetText"
	case PatchInsertChild:
		return "InsertChild"
	case PatchRemoveChild:
		return "RemoveChild"
	default:
		return "Unknown"
	}
}

// Patch represents a single edit operation. Nodes are addressed by Path,
// the chain of child indexes from the root (an empty path targets the
// root itself). Insert/Remove operations address the parent node and
// carry the child position in Index.
type Patch struct {
	Op    PatchOp  // Operation type
	Path  []int    // Child-index chain from the root
	Key   string   // Attribute/style name (Set/Remove Attr/Style)
	Value any      // New scalar value (SetAttr/SetStyle/SetText)
	Node  *Element // For Replace/InsertChild
	Index int      // Child position for InsertChild/RemoveChild
}

// NewReplacePatch creates a Replace patch.
func NewReplacePatch(path []int, node *Element) Patch {
	return Patch{Op: PatchReplace, Path: path, Node: node}
}

// NewSetAttrPatch creates a SetAttr patch.
func NewSetAttrPatch(path []int, key string, value any) Patch {
	return Patch{Op: PatchSetAttr, Path: path, Key: key, Value: value}
}

// NewRemoveAttrPatch creates a RemoveAttr patch.
func NewRemoveAttrPatch(path []int, key string) Patch {
	return Patch{Op: PatchRemoveAttr, Path: path, Key: key}
}

// NewSetStylePatch creates a SetStyle patch.
func NewSetStylePatch(path []int, name string, value any) Patch {
	return Patch{Op: PatchSetStyle, Path: path, Key: name, Value: value}
}

// NewRemoveStylePatch creates a RemoveStyle patch.
func NewRemoveStylePatch(path []int, name string) Patch {
	return Patch{Op: PatchRemoveStyle, Path: path, Key: name}
}

// NewSetTextPatch creates a SetText patch.
func NewSetTextPatch(path []int, text string) Patch {
	return Patch{Op: PatchSetText, Path: path, Value: text}
}

// NewInsertChildPatch creates an InsertChild patch addressed at the parent.
func NewInsertChildPatch(parentPath []int, index int, node *Element) Patch {
	return Patch{Op: PatchInsertChild, Path: parentPath, Index: index, Node: node}
}

// NewRemoveChildPatch creates a RemoveChild patch addressed at the parent.
func NewRemoveChildPatch(parentPath []int, index int) Patch {
	return Patch{Op: PatchRemoveChild, Path: parentPath, Index: index}
}
