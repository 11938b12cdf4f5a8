// Package attack implements the real-time frame classifiers and the
// jam/spoof sequencer that acts on them.
package attack

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ystepanoff/zbjam/dutycycle"
	proto "github.com/ystepanoff/zbjam/protocol"
	"github.com/ystepanoff/zbjam/transport"
)

// ID is the two-digit number an attack is known by.
type ID uint8

func (id ID) String() string { return fmt.Sprintf("%02d", uint8(id)) }

func ParseID(s string) (ID, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", proto.ErrUnknownAttack, s)
	}
	id := ID(n)
	if _, ok := registry[id]; !ok {
		return 0, fmt.Errorf("%w: %s", proto.ErrUnknownAttack, id)
	}
	return id, nil
}

type Verdict uint8

const (
	Ignore Verdict = iota
	JamOnly
	JamAndSpoof
)

func (v Verdict) String() string {
	switch v {
	case Ignore:
		return "ignore"
	case JamOnly:
		return "jam"
	case JamAndSpoof:
		return "jam+spoof"
	}
	return "invalid"
}

// MaxSpoofs is the most forged frames any attack sends per match.
const MaxSpoofs = 2

// Spoof is one forged frame. Body points into buffers owned by the
// attack and is only valid until the next frame is classified.
type Spoof struct {
	Delay  time.Duration
	PHYLen byte
	Body   []byte
}

// Outcome is the decision for one received frame.
type Outcome struct {
	Verdict Verdict
	JamLen  byte
	Spoofs  [MaxSpoofs]Spoof
	NSpoofs int
}

func ignore() Outcome { return Outcome{} }

func jam(n byte) Outcome { return Outcome{Verdict: JamOnly, JamLen: n} }

func (o Outcome) spoof(delay time.Duration, phyLen byte, body []byte) Outcome {
	o.Verdict = JamAndSpoof
	o.Spoofs[o.NSpoofs] = Spoof{Delay: delay, PHYLen: phyLen, Body: body}
	o.NSpoofs++
	return o
}

// JamLen is the length of a jam covering what is left of a frame of
// phyLen octets once k header octets have gone by, never less than one.
func JamLen(phyLen, k byte) byte {
	if phyLen > k {
		return phyLen - k
	}
	return 1
}

// Attack classifies frames for one attack variant.
type Attack interface {
	ID() ID
	Classify(f *Frame) Outcome
}

// passive attacks leave every frame to the normal receive path.
type passive interface {
	passive()
}

// Frame is the frame in flight as seen by Classify: a cursor over the
// open buffer read plus the duty-cycle hooks of the running engine.
type Frame struct {
	Cursor
	sched  *dutycycle.Scheduler
	ticker transport.Ticker
	stats  *Stats
}

// ArmOnce starts the duty-cycle timer on the first call. The frame that
// arms it is not classified.
func (f *Frame) ArmOnce() bool { return f.sched.ArmOnce(f.ticker) }

// Gate reports whether the duty cycle lets a matching frame through.
func (f *Frame) Gate() bool {
	if f.sched.Gate() {
		return true
	}
	f.stats.Gated++
	return false
}

// ResetIdle restarts the idle window.
func (f *Frame) ResetIdle() {
	f.sched.ResetIdle()
	f.stats.IdleResets++
}
