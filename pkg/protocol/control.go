package protocol

import "fmt"

// ControlType identifies the control message kind.
type ControlType uint8

const (
	ControlPing  ControlType = 0x01 // Heartbeat request
	ControlPong  ControlType = 0x02 // Heartbeat response
	ControlClose ControlType = 0x03 // Graceful shutdown notice
)

// String returns the string representation of the control type.
func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// ControlMessage is a ping, pong, or close notification. Time is a
// unix-millisecond timestamp echoed back in pongs; Reason is set only
// for Close.
type ControlMessage struct {
	Type   ControlType
	Time   int64
	Reason string
}

// EncodeControl encodes a control frame payload.
func EncodeControl(cm *ControlMessage) []byte {
	e := NewEncoder()
	e.WriteByte(byte(cm.Type))
	switch cm.Type {
	case ControlPing, ControlPong:
		e.WriteSvarint(cm.Time)
	case ControlClose:
		e.WriteString(cm.Reason)
	}
	return e.Bytes()
}

// DecodeControl decodes a control frame payload.
func DecodeControl(data []byte) (*ControlMessage, error) {
	d := NewDecoder(data)

	t, err := d.ReadByte()
	if err != nil {
		return nil, err
	}

	cm := &ControlMessage{Type: ControlType(t)}
	switch cm.Type {
	case ControlPing, ControlPong:
		cm.Time, err = d.ReadSvarint()
	case ControlClose:
		cm.Reason, err = d.ReadString()
	default:
		return nil, fmt.Errorf("protocol: unknown control type 0x%02x", t)
	}
	if err != nil {
		return nil, err
	}
	return cm, nil
}
