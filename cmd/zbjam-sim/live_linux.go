//go:build linux && !tinygo

package main

import (
	"context"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"

	"github.com/ystepanoff/zbjam/attack"
	"github.com/ystepanoff/zbjam/config"
	zlinux "github.com/ystepanoff/zbjam/driver/linux"
	proto "github.com/ystepanoff/zbjam/protocol"
)

func runLive(ctx context.Context, cfg config.Config, id attack.ID, log *zap.SugaredLogger) error {
	drv, err := zlinux.Open(zlinux.Config{
		SPIPort:  cfg.Linux.SPIPort,
		SPIClock: physic.Frequency(cfg.Linux.SPIClockHz) * physic.Hertz,
		ChipSel:  cfg.Linux.ChipSel,
		SLPTR:    cfg.Linux.SLPTR,
		Reset:    cfg.Linux.Reset,
		IRQ:      cfg.Linux.IRQ,
	}, log)
	if err != nil {
		return err
	}
	defer drv.Close()

	a, err := attack.New(id, cfg.Params)
	if err != nil {
		return err
	}
	family := cfg.Board.Family()
	eng := attack.NewEngine(a, drv, attack.Config{
		Family:    family,
		DutyCycle: dutyCycle(cfg.Params),
		Ticker:    drv,
		Locker:    drv,
	})

	ident := eng.Radio().Identify()
	if got, ok := proto.FamilyFromPart(ident.Part); !ok || got != family {
		log.Warnw("part number does not match the board",
			"part", ident.Part, "board", cfg.Board, "want", family)
	}
	eng.Radio().Setup()
	log.Infow("attack running", "attack", id, "part", ident.Part, "version", ident.Version)

	err = drv.Serve(ctx, eng.Poll)
	st := eng.Stats()
	log.Infow("attack stopped", "frames", st.Frames, "matched", st.Matched, "spoofed", st.Spoofed)
	return err
}
