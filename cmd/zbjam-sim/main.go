//go:build !tinygo && !baremetal

// Command zbjam-sim replays an 802.15.4 capture through one attack on a
// simulated transceiver and reports what it would have sent. With -live
// it runs the attack on a transceiver wired to a Linux SPI port.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/rodaine/table"
	"go.uber.org/zap"

	"github.com/ystepanoff/zbjam/attack"
	"github.com/ystepanoff/zbjam/capture"
	"github.com/ystepanoff/zbjam/config"
	"github.com/ystepanoff/zbjam/driver/stub"
	"github.com/ystepanoff/zbjam/dutycycle"
	proto "github.com/ystepanoff/zbjam/protocol"
	"github.com/ystepanoff/zbjam/replay"
)

var (
	flagConfig  = flag.String("config", "", "TOML configuration file")
	flagAttack  = flag.String("attack", "", "attack ID, prompted for on a terminal when unset")
	flagBoard   = flag.String("board", "", "board profile: atusb, rzusb or hulusb")
	flagIn      = flag.String("in", "", "capture to replay")
	flagOut     = flag.String("out", "", "write transmissions to this capture")
	flagAll     = flag.Bool("all", false, "list ignored frames too")
	flagLive    = flag.Bool("live", false, "run on the Linux SPI transceiver instead of replaying")
	flagList    = flag.Bool("list", false, "list attacks and exit")
	flagDump    = flag.Bool("dump-config", false, "print the effective configuration and exit")
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
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Log, *flagVerbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	switch {
	case *flagList:
		printAttacks(os.Stdout)
		return nil
	case *flagDump:
		return config.Write(os.Stdout, cfg)
	}

	id, err := chooseAttack(cfg)
	if err != nil {
		return err
	}

	if *flagLive {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err := runLive(ctx, cfg, id, log)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return runReplay(cfg, id, log)
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *flagConfig != "" {
		var err error
		if cfg, err = config.Load(*flagConfig); err != nil {
			return cfg, err
		}
	}
	if *flagAttack != "" {
		id, err := attack.ParseID(*flagAttack)
		if err != nil {
			return cfg, err
		}
		cfg.Attack, cfg.HasAttack = id, true
	}
	if *flagBoard != "" {
		b, err := proto.ParseBoard(*flagBoard)
		if err != nil {
			return cfg, fmt.Errorf("%w: %q", err, *flagBoard)
		}
		cfg.Board = b
	}
	if *flagIn != "" {
		cfg.Replay.Input = *flagIn
	}
	if *flagOut != "" {
		cfg.Replay.Output = *flagOut
	}
	return cfg, nil
}

func newLogger(c config.Log, verbose bool) (*zap.SugaredLogger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	lvl, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: log level %q", proto.ErrInvalidConfig, c.Level)
	}
	if verbose {
		lvl.SetLevel(zap.DebugLevel)
	}
	zc.Level = lvl
	zc.OutputPaths = []string{"stderr"}
	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// chooseAttack prefers the flag or the configuration and asks only when
// stdin is a terminal.
func chooseAttack(cfg config.Config) (attack.ID, error) {
	if cfg.HasAttack {
		return cfg.Attack, nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return 0, fmt.Errorf("%w: none selected, use -attack", proto.ErrUnknownAttack)
	}
	ids := attack.IDs()
	items := make([]string, len(ids))
	for i, id := range ids {
		items[i] = fmt.Sprintf("%s  %s", id, attack.Summary(id))
	}
	sel := promptui.Select{Label: "Attack", Items: items}
	i, _, err := sel.Run()
	if err != nil {
		return 0, err
	}
	return ids[i], nil
}

func printAttacks(w io.Writer) {
	tbl := table.New("ID", "GATED", "SUMMARY").WithWriter(w)
	tbl.WithHeaderFormatter(color.New(color.FgGreen, color.Underline).SprintfFunc())
	tbl.WithFirstColumnFormatter(color.New(color.FgYellow).SprintfFunc())
	for _, id := range attack.IDs() {
		gated := ""
		if attack.Gated(id) {
			gated = "yes"
		}
		tbl.AddRow(id, gated, attack.Summary(id))
	}
	tbl.Print()
}

func runReplay(cfg config.Config, id attack.ID, log *zap.SugaredLogger) error {
	if cfg.Replay.Input == "" {
		return fmt.Errorf("%w: no capture to replay, use -in", proto.ErrInvalidConfig)
	}
	f, err := os.Open(cfg.Replay.Input)
	if err != nil {
		return err
	}
	defer f.Close()
	rd, err := capture.NewReader(f)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Replay.Input, err)
	}
	recs, err := rd.ReadAll()
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Replay.Input, err)
	}

	var w *capture.Writer
	if cfg.Replay.Output != "" {
		out, err := os.Create(cfg.Replay.Output)
		if err != nil {
			return err
		}
		defer out.Close()
		if w, err = capture.NewWriter(out); err != nil {
			return err
		}
	}

	a, err := attack.New(id, cfg.Params)
	if err != nil {
		return err
	}
	family := cfg.Board.Family()
	drv := stub.New(family)
	eng := attack.NewEngine(a, drv, attack.Config{
		Family:    family,
		DutyCycle: dutyCycle(cfg.Params),
		Ticker:    drv,
	})
	eng.Radio().Setup()
	log.Infow("replaying", "attack", id, "board", cfg.Board, "frames", len(recs))

	gap := time.Duration(cfg.Replay.GapMicros) * time.Microsecond
	results, err := replay.New(eng, drv, gap, log).Run(recs, w)
	if err != nil {
		return err
	}
	printResults(os.Stdout, results, *flagAll)
	printStats(os.Stdout, eng.Stats())
	return nil
}

func dutyCycle(p proto.Params) dutycycle.Config {
	return dutycycle.Config{IdleSeconds: p.IdleSeconds, ActiveSeconds: p.ActiveSeconds}
}

func printResults(w io.Writer, results []replay.Result, all bool) {
	tbl := table.New("#", "TIME", "LEN", "FCS", "READ", "VERDICT", "JAM", "SPOOFS", "PHASE").WithWriter(w)
	tbl.WithHeaderFormatter(color.New(color.FgGreen, color.Underline).SprintfFunc())
	tbl.WithFirstColumnFormatter(color.New(color.FgYellow).SprintfFunc())
	for _, r := range results {
		if r.Verdict == attack.Ignore && !all {
			continue
		}
		fcs := "ok"
		if !r.FCSValid {
			fcs = color.MagentaString("bad")
		}
		tbl.AddRow(
			r.Index,
			r.Time.Format("15:04:05.000000"),
			r.PHYLen,
			fcs,
			r.Consumed,
			verdictString(r.Verdict),
			r.JamLen(),
			max(len(r.Tx)-1, 0),
			r.Phase,
		)
	}
	tbl.Print()
}

func verdictString(v attack.Verdict) string {
	switch v {
	case attack.JamOnly:
		return color.YellowString(v.String())
	case attack.JamAndSpoof:
		return color.RedString(v.String())
	}
	return v.String()
}

func printStats(w io.Writer, st attack.Stats) {
	tbl := table.New("FRAMES", "MATCHED", "SPOOFED", "GATED", "IDLE RESETS", "OCTETS READ").WithWriter(w)
	tbl.WithHeaderFormatter(color.New(color.FgCyan, color.Underline).SprintfFunc())
	tbl.AddRow(st.Frames, st.Matched, st.Spoofed, st.Gated, st.IdleResets, st.Consumed)
	tbl.Print()
}
