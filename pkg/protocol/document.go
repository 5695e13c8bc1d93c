package protocol

// DocumentFrame carries a full serialized document for one display.
// It is the payload of both Create and Replace frames; Create announces
// the display, Replace swaps its content wholesale.
//
// The document travels as the JSON encoding produced by
// vdom.Serialize, so the sink receives exactly the transport shape:
//
//	{"tagName": ..., "attributes": {...}, "children": [...] | null}
type DocumentFrame struct {
	DisplayID string
	Seq       uint64
	Document  []byte
}

// EncodeDocument encodes a Create/Replace frame payload.
func EncodeDocument(df *DocumentFrame) []byte {
	e := NewEncoder()
	e.WriteString(df.DisplayID)
	e.WriteUvarint(df.Seq)
	e.WriteLenBytes(df.Document)
	return e.Bytes()
}

// DecodeDocument decodes a Create/Replace frame payload.
func DecodeDocument(data []byte) (*DocumentFrame, error) {
	d := NewDecoder(data)

	df := &DocumentFrame{}
	var err error
	if df.DisplayID, err = d.ReadString(); err != nil {
		return nil, err
	}
	if df.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if df.Document, err = d.ReadLenBytes(); err != nil {
		return nil, err
	}
	return df, nil
}

// Ack acknowledges a sequenced frame for one display.
type Ack struct {
	DisplayID string
	Seq       uint64
}

// EncodeAck encodes an Ack frame payload.
func EncodeAck(a *Ack) []byte {
	e := NewEncoder()
	e.WriteString(a.DisplayID)
	e.WriteUvarint(a.Seq)
	return e.Bytes()
}

// DecodeAck decodes an Ack frame payload.
func DecodeAck(data []byte) (*Ack, error) {
	d := NewDecoder(data)

	a := &Ack{}
	var err error
	if a.DisplayID, err = d.ReadString(); err != nil {
		return nil, err
	}
	if a.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	return a, nil
}
