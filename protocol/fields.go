package protocol

// Field predicates over single header octets. FCL is the low byte of the
// MAC frame control field, FCH the high byte.

// ValidPHYLen reports whether a PHY length byte can carry a MAC frame
// with a sequence number and has the reserved bit clear.
func ValidPHYLen(l byte) bool { return l >= 5 && l&PHYLenReserved == 0 }

func FrameType(fcl byte) byte          { return fcl & FrameTypeMask }
func Secured(fcl byte) bool            { return fcl&SecurityEnabled != 0 }
func AckRequested(fcl byte) bool       { return fcl&AckRequest != 0 }
func PANIDCompressed(fcl byte) bool    { return fcl&PANIDCompression != 0 }
func FrameVersion(fch byte) byte       { return fch & FrameVersionMask }
func DstAddrMode(fch byte) byte        { return fch & DstAddrModeMask }
func SrcAddrMode(fch byte) byte        { return fch & SrcAddrModeMask }
func NWKFrameType(nfcl byte) byte      { return nfcl & NWKFrameTypeMask }
func NWKSecured(nfch byte) bool        { return nfch&NWKSecurity != 0 }
func NWKSourceRouted(nfch byte) bool   { return nfch&NWKSourceRoute != 0 }
func FirstFragment(dispatch byte) bool { return dispatch&DispatchFragMask == DispatchFrag1 }

// ShortAddressed reports short destination and short source addressing.
func ShortAddressed(fch byte) bool {
	return DstAddrMode(fch) == DstAddrShort && SrcAddrMode(fch) == SrcAddrShort
}

// ExtAddressed reports extended destination and extended source addressing.
func ExtAddressed(fch byte) bool {
	return DstAddrMode(fch) == DstAddrExt && SrcAddrMode(fch) == SrcAddrExt
}

// NWKOptionalLen is the number of NWK header octets announced by the
// high frame-control byte: extended destination, extended source and
// the multicast control field.
func NWKOptionalLen(nfch byte) int {
	n := 0
	if nfch&NWKExtDst != 0 {
		n += 8
	}
	if nfch&NWKExtSrc != 0 {
		n += 8
	}
	if nfch&NWKMulticast != 0 {
		n++
	}
	return n
}

// LoByte and HiByte split a 16-bit field in wire order.
func LoByte(v uint16) byte { return byte(v) }
func HiByte(v uint16) byte { return byte(v >> 8) }
