package protocol

import (
	"fmt"

	"github.com/livedom-dev/livedom/pkg/vdom"
)

// Scalar type tags for attribute and style values.
const (
	scalarString  byte = 0x00
	scalarInt     byte = 0x01
	scalarFloat64 byte = 0x02
	scalarBool    byte = 0x03
	scalarNil     byte = 0x04
)

// EncodeScalar encodes one attribute/style value. Integers widen to
// int64 on the wire; other scalar types round-trip exactly.
func EncodeScalar(e *Encoder, v any) error {
	switch val := v.(type) {
	case string:
		e.WriteByte(scalarString)
		e.WriteString(val)
	case int:
		e.WriteByte(scalarInt)
		e.WriteSvarint(int64(val))
	case int64:
		e.WriteByte(scalarInt)
		e.WriteSvarint(val)
	case float64:
		e.WriteByte(scalarFloat64)
		e.WriteFloat64(val)
	case bool:
		e.WriteByte(scalarBool)
		e.WriteBool(val)
	case nil:
		e.WriteByte(scalarNil)
	default:
		return fmt.Errorf("protocol: unsupported scalar type %T", v)
	}
	return nil
}

// DecodeScalar decodes one attribute/style value.
func DecodeScalar(d *Decoder) (any, error) {
	tag, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case scalarString:
		return d.ReadString()
	case scalarInt:
		return d.ReadSvarint()
	case scalarFloat64:
		return d.ReadFloat64()
	case scalarBool:
		return d.ReadBool()
	case scalarNil:
		return nil, nil
	default:
		return nil, fmt.Errorf("protocol: unknown scalar tag 0x%02x", tag)
	}
}

// Child list markers. Documents distinguish a node built without
// children (null) from one with an explicitly empty list.
const (
	childrenNil     byte = 0x00
	childrenPresent byte = 0x01
)

// EncodeNode encodes a transport node in binary form.
func EncodeNode(e *Encoder, n *vdom.Node) error {
	e.WriteByte(byte(n.Kind))

	if n.Kind == vdom.KindText {
		e.WriteString(n.Text)
		return nil
	}

	e.WriteString(n.TagName)

	e.WriteUvarint(uint64(len(n.Attrs)))
	for _, a := range n.Attrs {
		e.WriteString(a.Key)
		if err := EncodeScalar(e, a.Value); err != nil {
			return err
		}
	}

	e.WriteUvarint(uint64(len(n.Style)))
	for _, p := range n.Style {
		e.WriteString(p.Name)
		if err := EncodeScalar(e, p.Value); err != nil {
			return err
		}
	}

	if n.Children == nil {
		e.WriteByte(childrenNil)
		return nil
	}
	e.WriteByte(childrenPresent)
	e.WriteUvarint(uint64(len(n.Children)))
	for _, child := range n.Children {
		if err := EncodeNode(e, child); err != nil {
			return err
		}
	}
	return nil
}

// DecodeNode decodes a binary transport node, enforcing MaxNodeDepth.
func DecodeNode(d *Decoder) (*vdom.Node, error) {
	return decodeNode(d, 0)
}

func decodeNode(d *Decoder, depth int) (*vdom.Node, error) {
	if depth > MaxNodeDepth {
		return nil, ErrMaxDepthExceeded
	}

	kindByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	kind := vdom.Kind(kindByte)

	if kind == vdom.KindText {
		text, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		return &vdom.Node{Kind: vdom.KindText, Text: text}, nil
	}
	if kind != vdom.KindElement {
		return nil, fmt.Errorf("protocol: unknown node kind 0x%02x", kindByte)
	}

	n := &vdom.Node{Kind: vdom.KindElement}
	if n.TagName, err = d.ReadString(); err != nil {
		return nil, err
	}

	attrCount, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	for i := 0; i < attrCount; i++ {
		key, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		value, err := DecodeScalar(d)
		if err != nil {
			return nil, err
		}
		n.Attrs = append(n.Attrs, vdom.Attr{Key: key, Value: value})
	}

	styleCount, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	for i := 0; i < styleCount; i++ {
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		value, err := DecodeScalar(d)
		if err != nil {
			return nil, err
		}
		n.Style = append(n.Style, vdom.StyleProp{Name: name, Value: value})
	}

	marker, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	switch marker {
	case childrenNil:
		return n, nil
	case childrenPresent:
		childCount, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		n.Children = make([]*vdom.Node, 0, childCount)
		for i := 0; i < childCount; i++ {
			child, err := decodeNode(d, depth+1)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("protocol: invalid children marker 0x%02x", marker)
	}
}
