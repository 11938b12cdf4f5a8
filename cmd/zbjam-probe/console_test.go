package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestTail(t *testing.T) {
	var out bytes.Buffer
	in := strings.Repeat("atusb: rx 12 octets\n", 40)
	if err := tail(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatalf("tail: %v", err)
	}
	if out.String() != in {
		t.Errorf("copied %d octets, want %d", out.Len(), len(in))
	}
}

func TestTailCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := tail(ctx, strings.NewReader("never read"), &out)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("tail error = %v, want context.Canceled", err)
	}
	if out.Len() != 0 {
		t.Errorf("copied %q after cancel", out.String())
	}
}
