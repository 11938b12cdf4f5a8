//go:build !tinygo && !baremetal

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

func console(ctx context.Context, path string, baud int, w io.Writer, log *zap.SugaredLogger) error {
	port, err := serial.Open(path, &serial.Mode{BaudRate: baud})
	if err != nil {
		return fmt.Errorf("open console %s: %w", path, err)
	}
	defer port.Close()
	// reads return empty on timeout so cancellation is noticed
	if err := port.SetReadTimeout(200 * time.Millisecond); err != nil {
		return fmt.Errorf("console read timeout: %w", err)
	}
	log.Infow("console open", "port", path, "baud", baud)
	return tail(ctx, port, w)
}

// tail copies r to w until r ends or ctx is done.
func tail(ctx context.Context, r io.Reader, w io.Writer) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
