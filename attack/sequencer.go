package attack

import (
	proto "github.com/ystepanoff/zbjam/protocol"
	"github.com/ystepanoff/zbjam/transport"
)

// Sequencer turns a matching Outcome into radio operations. It runs with
// the buffer read already closed and the receiver still busy.
type Sequencer struct {
	radio *transport.Radio
	trx   transport.Transceiver
}

func NewSequencer(radio *transport.Radio, trx transport.Transceiver) *Sequencer {
	return &Sequencer{radio: radio, trx: trx}
}

// Run leaves the receive path, sends the jam, sends each spoof after its
// delay and puts the receiver back on. There is no way to abort it.
func (s *Sequencer) Run(o *Outcome) {
	s.radio.LeaveRX()

	// Only the length is written: the jam carries whatever the frame
	// buffer holds.
	s.radio.WriteFrame(o.JamLen, nil)
	s.trx.Strobe()

	for i := 0; i < o.NSpoofs; i++ {
		sp := &o.Spoofs[i]
		s.trx.Delay(sp.Delay)
		s.radio.WriteFrame(sp.PHYLen, sp.Body)
		s.trx.Strobe()
	}

	s.radio.ForceState(proto.TRXCmdRXOn)
}
