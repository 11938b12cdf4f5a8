package attack

import (
	"time"

	"github.com/ystepanoff/zbjam/dutycycle"
	proto "github.com/ystepanoff/zbjam/protocol"
	"github.com/ystepanoff/zbjam/transport"
)

// Stats counts what the engine did. The frame path never logs; callers
// read these instead.
type Stats struct {
	Frames     uint32
	Matched    uint32
	Spoofed    uint32
	Gated      uint32
	IdleResets uint32
	Consumed   uint32 // octets read, length byte included
}

// Config selects the silicon and duty-cycle behaviour of an Engine.
type Config struct {
	Family    proto.Family
	DutyCycle dutycycle.Config
	// Ticker drives the duty-cycle timer once a gated attack arms it.
	Ticker transport.Ticker
	// Locker guards scheduler state shared with the timer handler.
	Locker transport.Locker
}

type nopTicker struct{}

func (nopTicker) Start(time.Duration, func()) {}

// Engine is the single attack linked into a running image. It owns the
// duty-cycle state and hands it to both handlers.
type Engine struct {
	attack Attack
	trx    transport.Transceiver
	radio  *transport.Radio
	seq    *Sequencer
	sched  *dutycycle.Scheduler
	frame  Frame
	stats  Stats
}

// NewEngine wires a to trx. Without a Ticker the duty-cycle clock only
// advances through HandleTick.
func NewEngine(a Attack, trx transport.Transceiver, cfg Config) *Engine {
	if cfg.Ticker == nil {
		cfg.Ticker = nopTicker{}
	}
	radio := transport.NewRadio(trx, cfg.Family)
	e := &Engine{
		attack: a,
		trx:    trx,
		radio:  radio,
		seq:    NewSequencer(radio, trx),
		sched:  dutycycle.New(cfg.DutyCycle, cfg.Locker),
	}
	e.frame = Frame{
		Cursor: newCursor(trx, trx),
		sched:  e.sched,
		ticker: cfg.Ticker,
		stats:  &e.stats,
	}
	return e
}

func (e *Engine) Attack() Attack                  { return e.attack }
func (e *Engine) Radio() *transport.Radio         { return e.radio }
func (e *Engine) Scheduler() *dutycycle.Scheduler { return e.sched }
func (e *Engine) Stats() Stats                    { return e.stats }

// HandleFrame is the frame-start handler. It reports whether the
// event was consumed; passive attacks leave it to the normal receive
// path. It leaves IRQ_STATUS alone, so an interrupt-driven caller goes
// through Poll to release the IRQ line.
func (e *Engine) HandleFrame() bool {
	if _, ok := e.attack.(passive); ok {
		return false
	}
	e.stats.Frames++

	e.frame.reset()
	e.trx.Begin()
	e.trx.Send(proto.CmdBufRead)
	out := e.attack.Classify(&e.frame)
	e.trx.End()
	e.stats.Consumed += uint32(e.frame.Pos())

	if out.Verdict == Ignore {
		return true
	}
	e.stats.Matched++
	e.stats.Spoofed += uint32(out.NSpoofs)
	e.seq.Run(&out)
	return true
}

// HandleTick is the duty-cycle timer handler.
func (e *Engine) HandleTick() { e.sched.Tick() }

// Poll reads and clears IRQ_STATUS and runs HandleFrame if RX_START was
// latched. It reports whether a frame was handled.
func (e *Engine) Poll() bool {
	if !e.radio.FramePending() {
		return false
	}
	return e.HandleFrame()
}
