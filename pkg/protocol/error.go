package protocol

// ErrorCode identifies the type of error carried in an Error frame.
type ErrorCode uint16

const (
	ErrUnknown        ErrorCode = 0x0000 // Unknown error
	ErrInvalidFrame   ErrorCode = 0x0001 // Malformed frame
	ErrInvalidPatch   ErrorCode = 0x0002 // Patch did not apply
	ErrDisplayUnknown ErrorCode = 0x0003 // No display with the given id
	ErrDisplayExists  ErrorCode = 0x0004 // Create for an id already live
	ErrOutOfOrder     ErrorCode = 0x0005 // Sequence number regression
	ErrRateLimited    ErrorCode = 0x0006 // Too many frames
	ErrServerError    ErrorCode = 0x0100 // Internal sink error
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrUnknown:
		return "Unknown"
	case ErrInvalidFrame:
		return "InvalidFrame"
	case ErrInvalidPatch:
		return "InvalidPatch"
	case ErrDisplayUnknown:
		return "DisplayUnknown"
	case ErrDisplayExists:
		return "DisplayExists"
	case ErrOutOfOrder:
		return "OutOfOrder"
	case ErrRateLimited:
		return "RateLimited"
	case ErrServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// ErrorMessage is sent when the sink rejects a frame or hits an
// internal failure. Fatal means the connection will be closed.
type ErrorMessage struct {
	Code    ErrorCode
	Message string
	Fatal   bool
}

// EncodeErrorMessage encodes an error frame payload.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteUint16(uint16(em.Code))
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	return e.Bytes()
}

// DecodeErrorMessage decodes an error frame payload.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)

	em := &ErrorMessage{}
	code, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	em.Code = ErrorCode(code)

	if em.Message, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Fatal, err = d.ReadBool(); err != nil {
		return nil, err
	}
	return em, nil
}
