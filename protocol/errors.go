package protocol

import "errors"

var (
	ErrUnknownAttack  = errors.New("unknown attack identifier")
	ErrInvalidParams  = errors.New("invalid attack parameters")
	ErrCursorOrder    = errors.New("frame cursor: position already consumed")
	ErrCursorOverrun  = errors.New("frame cursor: read past declared length")
	ErrUnknownBoard   = errors.New("unknown board")
	ErrDeviceNotFound = errors.New("device not found")
	ErrTimeout        = errors.New("operation timed out")
	ErrLinkType       = errors.New("capture: unsupported link type")
	ErrFrameSize      = errors.New("capture: frame does not fit a PSDU")
	ErrInvalidConfig  = errors.New("invalid configuration")
)
