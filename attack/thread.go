package attack

import (
	proto "github.com/ystepanoff/zbjam/protocol"
)

// Attacks on Thread traffic: 2006 frames with extended addressing
// carrying link-local 6LoWPAN.

type discoveryResponse struct {
	p proto.Params
}

func (a *discoveryResponse) ID() ID { return DiscoveryResponseJam }

func (a *discoveryResponse) Classify(f *Frame) Outcome {
	l := f.Length()
	if !proto.ValidPHYLen(l) {
		return ignore()
	}
	fcl := f.Next()
	if proto.FrameType(fcl) != proto.FrameTypeData || proto.Secured(fcl) {
		return ignore()
	}
	compressed := proto.PANIDCompressed(fcl)
	if need := discoveryMinLen(compressed); l < need {
		return ignore()
	}
	fch := f.Next()
	if proto.FrameVersion(fch) != proto.FrameVersion2006 || !proto.ExtAddressed(fch) {
		return ignore()
	}
	f.Skip(1)
	if compressed {
		if !f.ExpectUint16(a.p.PANID) {
			return ignore()
		}
		f.Skip(8)
	} else {
		f.Skip(2 + 8)
		if !f.ExpectUint16(a.p.PANID) {
			return ignore()
		}
	}
	f.Skip(8)

	for _, want := range [...]byte{
		proto.DispatchIPHC, proto.IPHCLinkLocal, proto.NHCUDP,
		proto.HiByte(proto.MLEPort), proto.LoByte(proto.MLEPort),
		proto.HiByte(proto.MLEPort), proto.LoByte(proto.MLEPort),
	} {
		if !f.Expect(want) {
			return ignore()
		}
	}
	f.Skip(2) // UDP checksum
	if !f.Expect(proto.MLEUnsecured) || !f.Expect(proto.MLEDiscoveryResp) {
		return ignore()
	}
	return jam(JamLen(l, 54))
}

// discoveryMinLen is the PHY length needed to reach the MLE command
// octet.
func discoveryMinLen(compressed bool) byte {
	if compressed {
		return 32
	}
	return 34
}

const firstFragmentPHYLen = 124

type firstFragment struct {
	p proto.Params
}

func (a *firstFragment) ID() ID { return FirstFragmentJam }

func (a *firstFragment) Classify(f *Frame) Outcome {
	if f.Length() != firstFragmentPHYLen {
		return ignore()
	}
	fcl := f.Next()
	if proto.FrameType(fcl) != proto.FrameTypeData || proto.Secured(fcl) || !proto.PANIDCompressed(fcl) {
		return ignore()
	}
	fch := f.Next()
	if proto.FrameVersion(fch) != proto.FrameVersion2006 || !proto.ExtAddressed(fch) {
		return ignore()
	}
	f.Skip(1)
	if !f.ExpectUint16(a.p.PANID) {
		return ignore()
	}
	dst, src := f.Uint64(), f.Uint64()

	if !proto.FirstFragment(f.Next()) {
		return ignore()
	}
	f.Skip(3) // datagram size, tag
	switch f.Next() {
	case proto.DispatchIPHC, proto.DispatchIPHCHlim64, proto.DispatchIPHCHlim1:
	default:
		return ignore()
	}
	if !f.Expect(proto.IPHCLinkLocal) || !f.Expect(proto.NHCUDP) {
		return ignore()
	}
	for _, want := range [...]byte{
		proto.HiByte(a.p.UDPSrcPort), proto.LoByte(a.p.UDPSrcPort),
		proto.HiByte(a.p.UDPDstPort), proto.LoByte(a.p.UDPDstPort),
	} {
		if !f.Expect(want) {
			return ignore()
		}
	}

	// leave our own pair alone in either direction
	if (src == a.p.ExtendedSrcAddr && dst == a.p.ExtendedDstAddr) ||
		(src == a.p.ExtendedDstAddr && dst == a.p.ExtendedSrcAddr) {
		return ignore()
	}
	return jam(72)
}
