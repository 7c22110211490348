package accumulator

import (
	"errors"
	"fmt"
)

var (
	ErrFormat                 = errors.New("malformed wire bytes")
	ErrInvalidLength          = fmt.Errorf("%w: invalid length", ErrFormat)
	ErrInvalidMagic           = fmt.Errorf("%w: invalid magic", ErrFormat)
	ErrUnsupportedMessageType = fmt.Errorf("%w: unsupported message type", ErrFormat)
	ErrTruncatedField         = fmt.Errorf("%w: truncated field", ErrFormat)

	ErrCorrupt                  = errors.New("corrupt accumulator snapshot")
	ErrInvalidRingConfiguration = errors.New("invalid ring configuration")
)
