package replay

import (
	"bytes"
	"testing"
	"time"

	"github.com/ystepanoff/zbjam/attack"
	"github.com/ystepanoff/zbjam/capture"
	"github.com/ystepanoff/zbjam/driver/stub"
	"github.com/ystepanoff/zbjam/dutycycle"
	proto "github.com/ystepanoff/zbjam/protocol"
)

func engine(t *testing.T, id attack.ID, p proto.Params) (*attack.Engine, *stub.Driver) {
	t.Helper()
	a, err := attack.New(id, p)
	if err != nil {
		t.Fatal(err)
	}
	drv := stub.New(proto.AT86RF231)
	eng := attack.NewEngine(a, drv, attack.Config{
		Family:    proto.AT86RF231,
		DutyCycle: dutycycle.Config{IdleSeconds: p.IdleSeconds, ActiveSeconds: p.ActiveSeconds},
		Ticker:    drv,
	})
	return eng, drv
}

func record(at time.Time, mpdu ...byte) capture.Record {
	return capture.Record{Time: at, PSDU: append([]byte{byte(len(mpdu))}, mpdu...)}
}

func dataRequest(seq byte) []byte {
	return []byte{0x63, 0x88, seq, 0xaa, 0x99, 0x00, 0x00, 0x2e, 0x1d, 0x04, 0x00, 0x00}
}

func TestReplaySpoof(t *testing.T) {
	eng, drv := engine(t, attack.DataRequestSpoof, proto.DefaultParams)
	r := New(eng, drv, time.Millisecond, nil)

	base := time.Unix(1700000000, 0)
	recs := []capture.Record{
		record(base, dataRequest(1)...),
		record(base.Add(50*time.Millisecond), 0x41, 0x88, 0x02, 0xaa, 0x99),
		record(base.Add(100*time.Millisecond), dataRequest(3)...),
	}

	var buf bytes.Buffer
	w, err := capture.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	res, err := r.Run(recs, w)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantVerdicts := []attack.Verdict{attack.JamAndSpoof, attack.Ignore, attack.JamAndSpoof}
	for i, v := range wantVerdicts {
		if res[i].Verdict != v {
			t.Errorf("frame %d: verdict %v, want %v", i, res[i].Verdict, v)
		}
		if !res[i].Handled {
			t.Errorf("frame %d: not handled", i)
		}
	}
	if res[0].JamLen() != 1 || res[1].JamLen() != 0 {
		t.Errorf("jam lengths %d, %d", res[0].JamLen(), res[1].JamLen())
	}
	if res[2].Tx[1].Frame[2] != 3 {
		t.Errorf("ack of frame 2 carries seq %d, want 3", res[2].Tx[1].Frame[2])
	}
	if res[2].Tx[0].At < 100*time.Millisecond {
		t.Errorf("frame 2 jammed at %v, before it was captured", res[2].Tx[0].At)
	}

	rd, err := capture.NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	out, err := rd.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 6 {
		t.Fatalf("wrote %d frames, want 6", len(out))
	}
	if out[1].PHYLen() != proto.AckPHYLen || out[2].PHYLen() != proto.NWKDataPHYLen {
		t.Errorf("spoof lengths %d, %d", out[1].PHYLen(), out[2].PHYLen())
	}
	if !out[3].Time.After(base.Add(99 * time.Millisecond)) {
		t.Errorf("second jam stamped %v", out[3].Time)
	}
}

func TestReplayDutyCycle(t *testing.T) {
	p := proto.DefaultParams
	p.IdleSeconds = 1
	p.ActiveSeconds = 2
	eng, drv := engine(t, attack.DutyDataRequestSpoof, p)
	r := New(eng, drv, time.Millisecond, nil)

	base := time.Unix(0, 0)
	recs := []capture.Record{
		record(base, dataRequest(1)...),                            // arms
		record(base.Add(100*time.Millisecond), dataRequest(2)...),  // idle
		record(base.Add(1500*time.Millisecond), dataRequest(3)...), // wait -> active
	}
	res, err := r.Run(recs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res[0].Consumed != 0 || res[0].Verdict != attack.Ignore {
		t.Errorf("arming frame: %+v", res[0])
	}
	if res[1].Verdict != attack.Ignore || res[1].Phase != dutycycle.Idle {
		t.Errorf("idle frame: verdict %v phase %v", res[1].Verdict, res[1].Phase)
	}
	if res[2].Verdict != attack.JamAndSpoof || res[2].Phase != dutycycle.Active {
		t.Errorf("third frame: verdict %v phase %v", res[2].Verdict, res[2].Phase)
	}
}

func TestReplayFCS(t *testing.T) {
	eng, drv := engine(t, attack.DataRequestJam, proto.DefaultParams)
	r := New(eng, drv, time.Millisecond, nil)

	frame := dataRequest(1)
	proto.PutFCS(frame)
	if res := r.Feed(record(time.Unix(0, 0), frame...)); !res.FCSValid {
		t.Errorf("FCSValid = false for a frame with a good FCS")
	}
	frame[len(frame)-1] ^= 0xff
	if res := r.Feed(record(time.Unix(1, 0), frame...)); res.FCSValid {
		t.Errorf("FCSValid = true for a corrupted FCS")
	}
}

func TestReplayPassthrough(t *testing.T) {
	eng, drv := engine(t, attack.Passthrough, proto.DefaultParams)
	r := New(eng, drv, time.Millisecond, nil)
	res := r.Feed(record(time.Unix(0, 0), dataRequest(1)...))
	if res.Handled || res.Consumed != 0 || len(res.Tx) != 0 {
		t.Errorf("passthrough result %+v", res)
	}
}
