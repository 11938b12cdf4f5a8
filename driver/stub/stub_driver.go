//go:build !tinygo && !baremetal

// Package stub simulates an AT86RF23x behind its SPI bus for host-side
// tests and replays. Time is virtual: delays advance a clock instead of
// sleeping.
package stub

import (
	"slices"
	"sync"
	"time"

	proto "github.com/ystepanoff/zbjam/protocol"
)

// txLogCap bounds the transmissions kept; older ones are dropped.
const txLogCap = 64

// Transmission is one frame sent by a SLP_TR strobe.
type Transmission struct {
	At     time.Duration // virtual time of the strobe
	PHYLen byte
	Frame  []byte // frame buffer content sent on air, FCS octets included
	Status byte   // TRX_STATUS when strobed
}

// Driver implements transport.Transceiver and transport.Ticker.
type Driver struct {
	mu sync.Mutex

	family proto.Family
	regs   [0x40]byte
	buf    [1 + proto.MaxPSDU]byte

	// TRX_STATE commands take this many TRX_STATUS reads to complete.
	transitionReads int
	pendingStatus   byte
	transitionLeft  int

	// current transaction
	inTx    bool
	cmd     byte
	n       int
	rxIndex int

	consumed int
	clock    time.Duration
	delays   []time.Duration
	writes   [][2]byte
	strobes  int
	txLog    []Transmission // oldest first, at most txLogCap

	tickPeriod time.Duration
	tick       func()
	tickStarts int
	nextTick   time.Duration
}

type Option func(*Driver)

// WithTransitionReads makes every state change report STATE_TRANSITION
// for n status reads before settling.
func WithTransitionReads(n int) Option {
	return func(d *Driver) { d.transitionReads = n }
}

func New(family proto.Family, opts ...Option) *Driver {
	d := &Driver{family: family}
	d.regs[proto.RegTRXStatus] = proto.StatusTRXOff
	d.regs[proto.RegPartNum] = family.PartNumber()
	d.regs[proto.RegVersionNum] = 0x02
	d.regs[proto.RegManID0] = 0x1f
	for _, o := range opts {
		o(d)
	}
	return d
}

// InjectFrame loads an arriving PSDU (length octet first) into the frame
// buffer and latches RX_START, leaving the receiver in BUSY_RX as the
// chip reports it while the frame is still on air.
func (d *Driver) InjectFrame(psdu []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := copy(d.buf[:], psdu)
	for i := n; i < len(d.buf); i++ {
		d.buf[i] = 0
	}
	d.regs[proto.RegIRQStatus] |= proto.IRQRXStart
	d.regs[proto.RegTRXStatus] = proto.StatusBusyRX
}

func (d *Driver) Begin() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inTx = true
	d.n = 0
}

func (d *Driver) Send(v byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.inTx {
		return
	}
	if d.n == 0 {
		d.cmd = v
		if v == proto.CmdBufRead {
			d.rxIndex = 0
			d.consumed = 0
		}
	} else {
		switch {
		case d.cmd&0xc0 == proto.CmdRegWrite:
			d.writeReg(d.cmd&proto.RegAddrMask, v)
		case d.cmd == proto.CmdBufWrite:
			if i := d.n - 1; i < len(d.buf) {
				d.buf[i] = v
			}
		}
	}
	d.n++
}

func (d *Driver) Recv() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.inTx {
		return 0
	}
	if d.n == 0 {
		d.cmd = 0
		d.n++
		return 0
	}
	d.n++
	switch {
	case d.cmd == proto.CmdBufRead:
		d.consumed++
		if d.rxIndex >= len(d.buf) {
			return 0
		}
		v := d.buf[d.rxIndex]
		d.rxIndex++
		return v
	case d.cmd&0xc0 == proto.CmdRegRead:
		return d.readReg(d.cmd & proto.RegAddrMask)
	}
	return 0
}

func (d *Driver) End() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inTx = false
}

func (d *Driver) readReg(reg byte) byte {
	switch reg {
	case proto.RegTRXStatus:
		if d.transitionLeft > 0 {
			d.transitionLeft--
			if d.transitionLeft == 0 {
				d.regs[reg] = d.pendingStatus
			}
			return proto.StatusStateTransition
		}
	case proto.RegIRQStatus:
		v := d.regs[reg]
		d.regs[reg] = 0
		return v
	}
	return d.regs[reg]
}

func (d *Driver) writeReg(reg, v byte) {
	d.writes = append(d.writes, [2]byte{reg, v})
	d.regs[reg] = v
	if reg != proto.RegTRXState {
		return
	}
	target, ok := commandStatus(v)
	if !ok {
		return
	}
	if d.transitionReads > 0 {
		d.pendingStatus = target
		d.transitionLeft = d.transitionReads
		return
	}
	d.regs[proto.RegTRXStatus] = target
}

func commandStatus(cmd byte) (byte, bool) {
	switch cmd {
	case proto.TRXCmdRXOn:
		return proto.StatusRXOn, true
	case proto.TRXCmdPLLOn, proto.TRXCmdForcePLLOn:
		return proto.StatusPLLOn, true
	case proto.TRXCmdTRXOff, proto.TRXCmdForceTRXOff:
		return proto.StatusTRXOff, true
	case proto.TRXCmdRXAACKOn:
		return proto.StatusRXAACKOn, true
	case proto.TRXCmdTXARETOn:
		return proto.StatusTXARETOn, true
	}
	return 0, false
}

// Strobe sends the frame buffer as it stands, with the FCS filled in
// when automatic CRC is on.
func (d *Driver) Strobe() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.strobes++
	phyLen := d.buf[0] &^ proto.PHYLenReserved
	frame := make([]byte, phyLen)
	copy(frame, d.buf[1:])
	if d.autoCRC() {
		proto.PutFCS(frame)
	}
	if len(d.txLog) == txLogCap {
		n := copy(d.txLog, d.txLog[1:])
		d.txLog = d.txLog[:n]
	}
	d.txLog = append(d.txLog, Transmission{
		At:     d.clock,
		PHYLen: phyLen,
		Frame:  frame,
		Status: d.regs[proto.RegTRXStatus],
	})
}

func (d *Driver) autoCRC() bool {
	if d.family == proto.AT86RF230 {
		return d.regs[proto.RegPHYTXPwr]&proto.TXAutoCRCOn230 != 0
	}
	return d.regs[proto.RegTRXCtrl1]&proto.TXAutoCRCOn != 0
}

// Delay advances the virtual clock, firing any ticks that fall due.
func (d *Driver) Delay(dur time.Duration) {
	d.mu.Lock()
	d.delays = append(d.delays, dur)
	d.mu.Unlock()
	d.Advance(dur)
}

// Start records the tick callback. Ticks are delivered by Advance.
func (d *Driver) Start(period time.Duration, tick func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tickStarts++
	d.tickPeriod = period
	d.tick = tick
	d.nextTick = d.clock + period
}

// Advance moves the virtual clock forward by dur.
func (d *Driver) Advance(dur time.Duration) {
	d.mu.Lock()
	end := d.clock + dur
	for d.tick != nil && d.tickPeriod > 0 && d.nextTick <= end {
		d.clock = d.nextTick
		d.nextTick += d.tickPeriod
		tick := d.tick
		d.mu.Unlock()
		tick()
		d.mu.Lock()
	}
	d.clock = end
	d.mu.Unlock()
}

func (d *Driver) Now() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clock
}

// Consumed is the number of octets read by the last frame-buffer read,
// length octet included.
func (d *Driver) Consumed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.consumed
}

func (d *Driver) Status() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regs[proto.RegTRXStatus]
}

// IRQLine is the level of the IRQ pin: high while an unmasked interrupt
// is latched in IRQ_STATUS.
func (d *Driver) IRQLine() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regs[proto.RegIRQStatus]&d.regs[proto.RegIRQMask] != 0
}

func (d *Driver) Reg(reg byte) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regs[reg&proto.RegAddrMask]
}

// StateWrites returns the TRX_STATE commands written so far.
func (d *Driver) StateWrites() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []byte
	for _, w := range d.writes {
		if w[0] == proto.RegTRXState {
			out = append(out, w[1])
		}
	}
	return out
}

func (d *Driver) Delays() []time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]time.Duration, len(d.delays))
	copy(out, d.delays)
	return out
}

func (d *Driver) Strobes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.strobes
}

func (d *Driver) TickStarts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tickStarts
}

func (d *Driver) GetTxLog() []Transmission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.txLog)
}

// DrainTx returns and forgets the transmissions logged so far.
func (d *Driver) DrainTx() []Transmission {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.txLog
	d.txLog = nil
	return out
}

// Reset forgets the recorded history but keeps registers, clock and
// the tick source.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delays = nil
	d.writes = nil
	d.strobes = 0
	d.consumed = 0
	d.txLog = nil
}
