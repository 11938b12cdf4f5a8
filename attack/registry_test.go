package attack

import (
	"errors"
	"testing"

	proto "github.com/ystepanoff/zbjam/protocol"
)

func TestRegistry(t *testing.T) {
	want := []ID{0, 4, 5, 7, 11, 12, 13, 16, 18, 19, 20, 22, 25}
	ids := IDs()
	if len(ids) != len(want) {
		t.Fatalf("IDs() = %v, want %v", ids, want)
	}
	for i, id := range ids {
		if id != want[i] {
			t.Errorf("IDs()[%d] = %s, want %s", i, id, want[i])
		}
		a, err := New(id, proto.DefaultParams)
		if err != nil {
			t.Errorf("New(%s): %v", id, err)
			continue
		}
		if a.ID() != id {
			t.Errorf("New(%s).ID() = %s", id, a.ID())
		}
		if Summary(id) == "" {
			t.Errorf("Summary(%s) is empty", id)
		}
	}

	for _, id := range []ID{DutyDataRequestSpoof, DutyMLESpoof, DutyFragmentSpoof} {
		if !Gated(id) {
			t.Errorf("Gated(%s) = false", id)
		}
	}
	if Gated(DataRequestSpoof) {
		t.Errorf("Gated(12) = true")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(3, proto.DefaultParams); !errors.Is(err, proto.ErrUnknownAttack) {
		t.Errorf("New(3) error = %v, want ErrUnknownAttack", err)
	}
	p := proto.DefaultParams
	p.PANID = proto.BroadcastPANID
	if _, err := New(DataRequestJam, p); !errors.Is(err, proto.ErrInvalidParams) {
		t.Errorf("New with broadcast PAN error = %v, want ErrInvalidParams", err)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{"12", DataRequestSpoof, false},
		{"04", AckSpoof, false},
		{"0", Passthrough, false},
		{"3", 0, true},
		{"abc", 0, true},
		{"300", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseID(%q) error = %v", tt.in, err)
			}
			if err != nil && !errors.Is(err, proto.ErrUnknownAttack) {
				t.Errorf("error %v does not wrap ErrUnknownAttack", err)
			}
			if got != tt.want {
				t.Errorf("ParseID(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	if ID(4).String() != "04" {
		t.Errorf("ID(4).String() = %q", ID(4).String())
	}
	if JamAndSpoof.String() != "jam+spoof" || Verdict(9).String() != "invalid" {
		t.Errorf("unexpected Verdict strings")
	}
}
