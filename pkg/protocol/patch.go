package protocol

import (
	"fmt"

	"github.com/livedom-dev/livedom/pkg/vdom"
)

// PatchesFrame is a sequenced batch of patches for one display.
type PatchesFrame struct {
	DisplayID string
	Seq       uint64
	Patches   []vdom.Patch
}

// EncodePatches encodes a patches frame payload.
func EncodePatches(pf *PatchesFrame) ([]byte, error) {
	e := NewEncoder()
	e.WriteString(pf.DisplayID)
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		if err := encodePatch(e, &pf.Patches[i]); err != nil {
			return nil, err
		}
	}
	return e.Bytes(), nil
}

// DecodePatches decodes a patches frame payload.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)

	pf := &PatchesFrame{}
	var err error
	if pf.DisplayID, err = d.ReadString(); err != nil {
		return nil, err
	}
	if pf.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}

	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	pf.Patches = make([]vdom.Patch, count)
	for i := 0; i < count; i++ {
		if err := decodePatch(d, &pf.Patches[i]); err != nil {
			return nil, err
		}
	}
	return pf, nil
}

// encodePatch encodes a single patch: op, path, then op-specific data.
func encodePatch(e *Encoder, p *vdom.Patch) error {
	e.WriteByte(byte(p.Op))

	e.WriteUvarint(uint64(len(p.Path)))
	for _, idx := range p.Path {
		e.WriteUvarint(uint64(idx))
	}

	switch p.Op {
	case vdom.PatchReplace:
		return encodePatchNode(e, p.Node)

	case vdom.PatchSetAttr, vdom.PatchSetStyle:
		e.WriteString(p.Key)
		return EncodeScalar(e, p.Value)

	case vdom.PatchRemoveAttr, vdom.PatchRemoveStyle:
		e.WriteString(p.Key)

	case vdom.PatchSetText:
		text, ok := p.Value.(string)
		if !ok {
			return fmt.Errorf("protocol: SetText value must be a string, got %T", p.Value)
		}
		e.WriteString(text)

	case vdom.PatchInsertChild:
		e.WriteUvarint(uint64(p.Index))
		return encodePatchNode(e, p.Node)

	case vdom.PatchRemoveChild:
		e.WriteUvarint(uint64(p.Index))

	default:
		return fmt.Errorf("protocol: unknown patch op 0x%02x", uint8(p.Op))
	}
	return nil
}

// decodePatch decodes a single patch.
func decodePatch(d *Decoder, p *vdom.Patch) error {
	opByte, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = vdom.PatchOp(opByte)

	pathLen, err := d.ReadCollectionCount()
	if err != nil {
		return err
	}
	if pathLen > 0 {
		p.Path = make([]int, pathLen)
		for i := 0; i < pathLen; i++ {
			idx, err := d.ReadUvarint()
			if err != nil {
				return err
			}
			p.Path[i] = int(idx)
		}
	}

	switch p.Op {
	case vdom.PatchReplace:
		p.Node, err = decodePatchNode(d)
		return err

	case vdom.PatchSetAttr, vdom.PatchSetStyle:
		if p.Key, err = d.ReadString(); err != nil {
			return err
		}
		p.Value, err = DecodeScalar(d)
		return err

	case vdom.PatchRemoveAttr, vdom.PatchRemoveStyle:
		p.Key, err = d.ReadString()
		return err

	case vdom.PatchSetText:
		var text string
		if text, err = d.ReadString(); err != nil {
			return err
		}
		p.Value = text
		return nil

	case vdom.PatchInsertChild:
		var idx uint64
		if idx, err = d.ReadUvarint(); err != nil {
			return err
		}
		p.Index = int(idx)
		p.Node, err = decodePatchNode(d)
		return err

	case vdom.PatchRemoveChild:
		var idx uint64
		if idx, err = d.ReadUvarint(); err != nil {
			return err
		}
		p.Index = int(idx)
		return nil

	default:
		return fmt.Errorf("protocol: unknown patch op 0x%02x", opByte)
	}
}

// encodePatchNode encodes an element carried inside a patch. A nil
// element (replacement with nothing) is marked explicitly.
func encodePatchNode(e *Encoder, el *vdom.Element) error {
	if el == nil {
		e.WriteBool(false)
		return nil
	}
	e.WriteBool(true)
	return EncodeNode(e, vdom.Serialize(el))
}

func decodePatchNode(d *Decoder) (*vdom.Element, error) {
	present, err := d.ReadBool()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	n, err := DecodeNode(d)
	if err != nil {
		return nil, err
	}
	return n.Element(), nil
}
