package protocol

import (
	"encoding/binary"

	"github.com/sigurn/crc16"
)

// FCSSize is the length of the MAC frame check sequence.
const FCSSize = 2

// 802.15.4 uses the ITU-T polynomial, reflected, with a zero initial
// value: the KERMIT parameter set.
var fcsTable = crc16.MakeTable(crc16.CRC16_KERMIT)

// FCS computes the IEEE 802.15.4 frame check sequence over an MPDU
// without its FCS.
func FCS(mpdu []byte) uint16 {
	return crc16.Checksum(mpdu, fcsTable)
}

// PutFCS overwrites the last two octets of frame with the FCS of the
// rest, as the transceiver does with TX_AUTO_CRC_ON.
func PutFCS(frame []byte) {
	if len(frame) < FCSSize {
		return
	}
	n := len(frame) - FCSSize
	binary.LittleEndian.PutUint16(frame[n:], FCS(frame[:n]))
}

// CheckFCS reports whether the trailing FCS of frame is valid.
func CheckFCS(frame []byte) bool {
	if len(frame) < FCSSize {
		return false
	}
	n := len(frame) - FCSSize
	return binary.LittleEndian.Uint16(frame[n:]) == FCS(frame[:n])
}
