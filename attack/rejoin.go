package attack

import (
	proto "github.com/ystepanoff/zbjam/protocol"
)

// A rejoin response is a secured NWK command whose command frame is
// three octets; everything else in the frame has fixed size once the
// optional NWK fields are accounted for.
const (
	rejoinEnvelope = 38
	rejoinCmdLen   = 3
	rejoinMinLen   = rejoinEnvelope + rejoinCmdLen
)

type rejoinResponse struct {
	p proto.Params
}

func (a *rejoinResponse) ID() ID { return RejoinResponseJam }

func (a *rejoinResponse) Classify(f *Frame) Outcome {
	l := f.Length()
	if !proto.ValidPHYLen(l) || l < rejoinMinLen {
		return ignore()
	}
	fcl := f.Next()
	if fcl&0x03 != proto.FrameTypeData || proto.Secured(fcl) || !proto.PANIDCompressed(fcl) {
		return ignore()
	}
	fch := f.Next()
	if proto.FrameVersion(fch) != proto.FrameVersion2003 || !proto.ShortAddressed(fch) {
		return ignore()
	}
	f.Skip(1)
	if !f.ExpectUint16(a.p.PANID) {
		return ignore()
	}
	f.Skip(2)
	macSrc := f.Uint16()

	if proto.NWKFrameType(f.Next()) != proto.NWKFrameTypeCommand {
		return ignore()
	}
	nfch := f.Next()
	if !proto.NWKSecured(nfch) || proto.NWKSourceRouted(nfch) {
		return ignore()
	}
	optional := proto.NWKOptionalLen(nfch)

	f.Skip(2)
	nwkSrc := f.Uint16()
	radius := f.Next()

	// sent by the parent itself, one hop
	if int(l)-(optional+rejoinEnvelope) != rejoinCmdLen || radius != 1 || nwkSrc != macSrc {
		return ignore()
	}
	return jam(JamLen(l, 29))
}
