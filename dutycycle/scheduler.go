// Package dutycycle gates attacks into alternating idle and active
// windows driven by an 8 ms timer.
package dutycycle

import (
	proto "github.com/ystepanoff/zbjam/protocol"
	"github.com/ystepanoff/zbjam/transport"
)

type Phase uint8

const (
	Idle Phase = iota
	Wait
	Active
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Wait:
		return "wait"
	case Active:
		return "active"
	}
	return "invalid"
}

type Config struct {
	IdleSeconds   uint32
	ActiveSeconds uint32
}

// State is a copy of the scheduler counters.
type State struct {
	Armed        bool
	Phase        Phase
	Ticks        uint8
	Elapsed      uint32
	LastActivity uint32
}

// Scheduler is shared by the frame handler and the timer handler. Every
// exported method runs under the Locker given to New. Seconds counters
// use wrapping uint32 arithmetic.
type Scheduler struct {
	cfg  Config
	lock transport.Locker

	armed   bool
	phase   Phase
	ticks   uint8
	elapsed uint32
	last    uint32
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// New returns a scheduler in the idle phase with all counters at zero.
// A nil lock means the caller guarantees the handlers never interleave.
func New(cfg Config, lock transport.Locker) *Scheduler {
	if lock == nil {
		lock = nopLocker{}
	}
	return &Scheduler{cfg: cfg, lock: lock}
}

// ArmOnce starts the tick source the first time it is called and
// reports whether it did. Later calls do nothing.
func (s *Scheduler) ArmOnce(t transport.Ticker) bool {
	s.lock.Lock()
	if s.armed {
		s.lock.Unlock()
		return false
	}
	s.armed = true
	s.ticks = 0
	s.elapsed = 0
	s.lock.Unlock()

	t.Start(proto.TickPeriod, s.Tick)
	return true
}

// Tick is the timer handler. Phase changes are evaluated once per
// second.
func (s *Scheduler) Tick() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.ticks++
	if s.ticks < proto.TicksPerSecond {
		return
	}
	s.ticks = 0
	s.elapsed++

	switch s.phase {
	case Idle:
		if s.elapsed >= s.cfg.IdleSeconds {
			s.elapsed = 0
			s.phase = Wait
		}
	case Active:
		if s.elapsed-s.last > s.cfg.IdleSeconds {
			s.elapsed = 0
			s.phase = Wait
		} else if s.elapsed >= s.cfg.ActiveSeconds {
			s.elapsed = 0
			if s.cfg.IdleSeconds > 0 {
				s.phase = Idle
			}
		}
	}
}

// Gate is consulted for a frame that otherwise matches. It reports
// whether the attack may proceed, starting the active window when the
// scheduler was waiting for traffic.
func (s *Scheduler) Gate() bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	switch s.phase {
	case Idle:
		return false
	case Wait:
		s.ticks = 0
		s.elapsed = 0
		s.last = 0
		if s.cfg.ActiveSeconds == 0 {
			return false
		}
		s.phase = Active
	}

	if s.elapsed-s.last > s.cfg.IdleSeconds {
		// inactivity: restart the active window
		s.ticks = 0
		s.elapsed = 0
		s.last = 0
	} else {
		s.last = s.elapsed
	}
	return true
}

// ResetIdle restarts the idle countdown after traffic showing the
// tracked device is alive.
func (s *Scheduler) ResetIdle() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.ticks = 0
	s.elapsed = 0
	if s.cfg.IdleSeconds > 0 {
		s.phase = Idle
	}
}

func (s *Scheduler) Phase() Phase {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.phase
}

func (s *Scheduler) State() State {
	s.lock.Lock()
	defer s.lock.Unlock()
	return State{
		Armed:        s.armed,
		Phase:        s.phase,
		Ticks:        s.ticks,
		Elapsed:      s.elapsed,
		LastActivity: s.last,
	}
}
