package protocol

import "strings"

// Family identifies the transceiver silicon. The families differ in
// which command leaves the receive path without waiting for it to finish
// and where the automatic CRC bit lives.
type Family uint8

const (
	AT86RF230 Family = iota
	AT86RF231
	AT86RF212
)

func (f Family) String() string {
	switch f {
	case AT86RF230:
		return "AT86RF230"
	case AT86RF231:
		return "AT86RF231"
	case AT86RF212:
		return "AT86RF212"
	}
	return "unknown"
}

// PartNumber is the PART_NUM register value reported by the family.
func (f Family) PartNumber() byte {
	switch f {
	case AT86RF230:
		return 0x02
	case AT86RF231:
		return 0x03
	case AT86RF212:
		return 0x07
	}
	return 0x00
}

// IdleCommand is the TRX_STATE command used to abandon a reception in
// progress. The AT86RF230 has no FORCE_PLL_ON.
func (f Family) IdleCommand() byte {
	if f == AT86RF230 {
		return TRXCmdPLLOn
	}
	return TRXCmdForcePLLOn
}

// FamilyFromPart maps a PART_NUM value back to its family.
func FamilyFromPart(part byte) (Family, bool) {
	for _, f := range []Family{AT86RF230, AT86RF231, AT86RF212} {
		if f.PartNumber() == part {
			return f, true
		}
	}
	return 0, false
}

// Board is a supported dongle.
type Board uint8

const (
	BoardATUSB Board = iota
	BoardRZUSB
	BoardHULUSB
)

var boardNames = map[Board]string{
	BoardATUSB:  "atusb",
	BoardRZUSB:  "rzusb",
	BoardHULUSB: "hulusb",
}

func (b Board) String() string {
	if n, ok := boardNames[b]; ok {
		return n
	}
	return "unknown"
}

// Family returns the transceiver fitted to the board.
func (b Board) Family() Family {
	switch b {
	case BoardRZUSB:
		return AT86RF230
	case BoardHULUSB:
		return AT86RF212
	}
	return AT86RF231
}

// ParseBoard accepts the lower-case board names used on the command
// line and in configuration files.
func ParseBoard(name string) (Board, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for b, n := range boardNames {
		if n == name {
			return b, nil
		}
	}
	return 0, ErrUnknownBoard
}
