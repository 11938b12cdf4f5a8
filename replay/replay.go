//go:build !tinygo && !baremetal

// Package replay feeds captured frames through an engine running on the
// stub transceiver and records what it sent back.
package replay

import (
	"time"

	"go.uber.org/zap"

	"github.com/ystepanoff/zbjam/attack"
	"github.com/ystepanoff/zbjam/capture"
	"github.com/ystepanoff/zbjam/driver/stub"
	"github.com/ystepanoff/zbjam/dutycycle"
	proto "github.com/ystepanoff/zbjam/protocol"
)

// Result is the engine's reaction to one frame.
type Result struct {
	Index    int
	Time     time.Time
	PHYLen   byte
	FCSValid bool
	Handled  bool
	Consumed int
	Verdict  attack.Verdict
	Phase    dutycycle.Phase
	Tx       []stub.Transmission
}

// JamLen is the length of the jam sent for the frame, zero if none.
func (r Result) JamLen() byte {
	if len(r.Tx) == 0 {
		return 0
	}
	return r.Tx[0].PHYLen
}

type Replayer struct {
	eng *attack.Engine
	drv *stub.Driver
	gap time.Duration
	log *zap.SugaredLogger

	base  time.Time
	n     int
	began bool
}

// New replays onto eng, which must be wired to drv. gap separates
// frames whose capture timestamps do not move forward.
func New(eng *attack.Engine, drv *stub.Driver, gap time.Duration, log *zap.SugaredLogger) *Replayer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Replayer{eng: eng, drv: drv, gap: gap, log: log}
}

// Wall maps the stub's virtual clock onto capture time.
func (r *Replayer) Wall(at time.Duration) time.Time { return r.base.Add(at) }

// Feed moves the virtual clock to the frame's timestamp and delivers it.
func (r *Replayer) Feed(rec capture.Record) Result {
	if !r.began {
		r.base, r.began = rec.Time, true
	} else if d := rec.Time.Sub(r.base) - r.drv.Now(); d > 0 {
		r.drv.Advance(d)
	} else {
		r.drv.Advance(r.gap)
	}

	r.drv.InjectFrame(rec.PSDU)
	r.drv.Reset()
	handled := r.eng.Poll()

	res := Result{
		Index:    r.n,
		Time:     r.Wall(r.drv.Now()),
		PHYLen:   rec.PHYLen(),
		FCSValid: proto.CheckFCS(rec.PSDU[1:]),
		Handled:  handled,
		Consumed: r.drv.Consumed(),
		Phase:    r.eng.Scheduler().Phase(),
		Tx:       r.drv.DrainTx(),
	}
	switch {
	case len(res.Tx) > 1:
		res.Verdict = attack.JamAndSpoof
	case len(res.Tx) == 1:
		res.Verdict = attack.JamOnly
	}
	r.n++

	r.log.Debugw("frame",
		"index", res.Index,
		"len", res.PHYLen,
		"consumed", res.Consumed,
		"verdict", res.Verdict,
		"phase", res.Phase,
	)
	return res
}

// Run replays recs in order. Transmissions go to w when it is not nil.
func (r *Replayer) Run(recs []capture.Record, w *capture.Writer) ([]Result, error) {
	out := make([]Result, 0, len(recs))
	for _, rec := range recs {
		res := r.Feed(rec)
		if w != nil {
			for _, tx := range res.Tx {
				if err := w.Write(r.Wall(tx.At), tx.Frame); err != nil {
					return out, err
				}
			}
		}
		out = append(out, res)
	}
	st := r.eng.Stats()
	r.log.Infow("replay done",
		"attack", r.eng.Attack().ID(),
		"frames", st.Frames,
		"matched", st.Matched,
		"spoofed", st.Spoofed,
		"gated", st.Gated,
	)
	return out, nil
}
