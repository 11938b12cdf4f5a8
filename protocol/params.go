package protocol

import "fmt"

// Params holds the per-image attack parameters. A firmware image is
// built with one value and never changes it; nothing here is learned
// from received traffic.
type Params struct {
	PANID uint16

	// Short addresses of the tracked child (Dst) and its parent (Src).
	ShortDstAddr uint16
	ShortSrcAddr uint16

	ExtendedDstAddr uint64
	ExtendedSrcAddr uint64

	// Only the low 32 bits are compared against beacons.
	EPID uint64

	FrameCounter uint32
	KeySeqNum    uint8
	KeySource    uint32
	KeyIndex     uint8
	UDPChecksum  uint16
	DatagramTag  uint16
	UDPSrcPort   uint16
	UDPDstPort   uint16

	// Duty-cycle windows, in seconds.
	IdleSeconds   uint32
	ActiveSeconds uint32
}

// DefaultParams are the values baked into firmware images.
var DefaultParams = Params{
	PANID:           0x99aa,
	ShortDstAddr:    0x1d2e,
	ShortSrcAddr:    0x0000,
	ExtendedDstAddr: 0x0017880100a5c3e2,
	ExtendedSrcAddr: 0x00124b0001d9f1a7,
	EPID:            0xfacefeedbeefcafe,
	FrameCounter:    0x00f00000,
	KeySeqNum:       0x00,
	KeySource:       0x00000001,
	KeyIndex:        0x02,
	UDPChecksum:     0x0000,
	DatagramTag:     0x0000,
	UDPSrcPort:      0xf0b1,
	UDPDstPort:      0xf0b1,
	IdleSeconds:     10,
	ActiveSeconds:   30,
}

// Validate rejects parameter sets no variant can act on.
func (p Params) Validate() error {
	if p.PANID == BroadcastPANID {
		return fmt.Errorf("%w: PAN ID 0x%04x is the broadcast PAN", ErrInvalidParams, p.PANID)
	}
	if p.UDPSrcPort == 0 || p.UDPDstPort == 0 {
		return fmt.Errorf("%w: UDP ports must be non-zero", ErrInvalidParams)
	}
	if p.ExtendedSrcAddr == p.ExtendedDstAddr {
		return fmt.Errorf("%w: extended source and destination are equal", ErrInvalidParams)
	}
	return nil
}
