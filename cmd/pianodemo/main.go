// Command pianodemo plays a sampled piano note from a terminal button and
// logs the input of the connected MIDI devices.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/leandrodaf/pianomidi/internal/console"
	"github.com/leandrodaf/pianomidi/internal/logger"
	"github.com/leandrodaf/pianomidi/internal/ui"
	"github.com/leandrodaf/pianomidi/sdk/contracts"
	"github.com/leandrodaf/pianomidi/sdk/midi"
	"github.com/leandrodaf/pianomidi/sdk/sampler"
)

var (
	samplesFlag  = flag.String("samples", "assets/piano-mp3", "Directory holding the piano samples")
	noteFlag     = flag.String("note", "A1", "Note played by the play button; <note>.mp3 must exist in -samples")
	releaseFlag  = flag.Duration("release", sampler.DefaultRelease, "Fade-out time of a released note")
	logFileFlag  = flag.String("log-file", "pianodemo.log", "File receiving diagnostics")
	logLevelFlag = flag.String("log-level", "info", "Diagnostics level: debug, info, warn, error")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level, ok := contracts.ParseLogLevel(*logLevelFlag)
	if !ok {
		flag.Usage()
		os.Exit(2)
	}
	if _, err := sampler.ParseNote(*noteFlag); err != nil {
		log.Fatal(err)
	}

	zl := logger.NewZapLogger()
	zl.SetLevel(level)
	// The terminal belongs to the UI, so diagnostics go to a file.
	if err := zl.SetDestination(contracts.FileLog, *logFileFlag); err != nil {
		log.Fatal(err)
	}

	if err := run(interruptContext(), zl, level); err != nil {
		zl.Error("pianodemo failed", zl.Field().Error("error", err))
		log.Fatal(err)
	}
}

func run(parent context.Context, zl contracts.Logger, level contracts.LogLevel) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	lines := console.NewChan(256)
	con := console.Tee(lines, console.NewLogged(zl.Named("console")))

	gateway, err := midi.NewGateway(
		contracts.WithLogger(zl),
		contracts.WithLogLevel(level),
		contracts.WithConsole(con),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := gateway.Close(); err != nil && !errors.Is(err, midi.ErrNoAccess) {
			zl.Warn("Closing MIDI access", zl.Field().Error("error", err))
		}
	}()

	smp := sampler.New(
		sampler.WithLogger(zl),
		sampler.WithBaseDir(*samplesFlag),
		sampler.WithRelease(*releaseFlag),
	)
	ready := make(chan struct{})
	if err := smp.Load(map[string]string{*noteFlag: *noteFlag + ".mp3"}, func() { close(ready) }); err != nil {
		return err
	}

	model := ui.New(ui.Config{
		Sampler:      smp,
		Gateway:      gateway,
		Note:         *noteFlag,
		SamplerReady: ready,
		MIDIResult:   gateway.RequestAccess(ctx),
		Lines:        lines.Lines(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return startAudio(gctx, smp, zl)
	})
	g.Go(func() error {
		defer cancel()
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(gctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})
	return g.Wait()
}

// startAudio streams the sampler until ctx is done. An audio output failure is
// logged and leaves the rest of the program running.
func startAudio(ctx context.Context, smp *sampler.Sampler, zl contracts.Logger) error {
	if err := smp.Start(ctx); err != nil {
		zl.Error("Audio output stopped", zl.Field().Error("error", err))
	}
	return nil
}

func interruptContext() context.Context {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ctx
}
