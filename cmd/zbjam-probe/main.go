//go:build !tinygo && !baremetal

// Command zbjam-probe identifies a dongle running the stock ATUSB
// firmware and can tail its debug console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"go.uber.org/zap"

	"github.com/ystepanoff/zbjam/driver/atusb"
	proto "github.com/ystepanoff/zbjam/protocol"
)

var (
	flagBoard   = flag.String("board", "", "expected board: atusb, rzusb or hulusb")
	flagReset   = flag.Bool("reset", false, "reset the transceiver before probing")
	flagConsole = flag.String("console", "", "serial device of the debug console to tail after probing")
	flagBaud    = flag.Int("baud", 115200, "console baud rate")
	flagVerbose = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func run() error {
	var (
		l   *zap.Logger
		err error
	)
	if *flagVerbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	log := l.Sugar()
	defer log.Sync()

	var want proto.Board
	if *flagBoard != "" {
		if want, err = proto.ParseBoard(*flagBoard); err != nil {
			return fmt.Errorf("%w: %q", err, *flagBoard)
		}
	}

	if err := probe(want, log); err != nil {
		return err
	}

	if *flagConsole == "" {
		return nil
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = console(ctx, *flagConsole, *flagBaud, os.Stdout, log)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func probe(want proto.Board, log *zap.SugaredLogger) error {
	d, err := atusb.Open(log)
	if err != nil {
		return err
	}
	defer d.Close()

	if *flagReset {
		if err := d.Reset(); err != nil {
			return err
		}
	}
	v, err := d.Version()
	if err != nil {
		return err
	}
	build, err := d.Build()
	if err != nil {
		return err
	}
	id, err := d.Identify()
	if err != nil {
		return err
	}
	eui, err := d.EUI64()
	if err != nil {
		return err
	}

	board, known := v.Board()
	boardName := color.RedString("unknown (%d)", v.HWType)
	if known {
		boardName = board.String()
	}
	family, ok := proto.FamilyFromPart(id.Part)
	familyName := color.RedString("unknown (%d)", id.Part)
	if ok {
		familyName = family.String()
	}

	tbl := table.New("FIELD", "VALUE")
	tbl.WithHeaderFormatter(color.New(color.FgGreen, color.Underline).SprintfFunc())
	tbl.WithFirstColumnFormatter(color.New(color.FgYellow).SprintfFunc())
	tbl.AddRow("protocol", fmt.Sprintf("%d.%d", v.Major, v.Minor))
	tbl.AddRow("board", boardName)
	tbl.AddRow("build", build)
	tbl.AddRow("transceiver", familyName)
	tbl.AddRow("version", id.Version)
	tbl.AddRow("manufacturer", fmt.Sprintf("0x%04x", id.ManID))
	tbl.AddRow("EUI-64", fmt.Sprintf("%016x", eui))
	tbl.Print()

	if known && ok && board.Family() != family {
		log.Warnw("transceiver does not match the board", "board", board, "part", id.Part)
	}
	if *flagBoard != "" && (!known || board != want) {
		return fmt.Errorf("%w: found %s, want %s", proto.ErrUnknownBoard, boardName, want)
	}
	return nil
}
