package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/leandrodaf/pianomidi/internal/console"
	"github.com/leandrodaf/pianomidi/internal/logger"
	"github.com/leandrodaf/pianomidi/sdk/contracts"
	"github.com/leandrodaf/pianomidi/sdk/midi"
)

func main() {
	log := logger.NewZapLogger()

	gateway, err := midi.NewGateway(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.WarnLevel),
		contracts.WithConsole(console.NewStream(os.Stdout, os.Stderr)),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI gateway", log.Field().Error("error", err))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result := <-gateway.RequestAccess(ctx)
	if !result.OK() {
		return
	}
	defer closeGateway(gateway, log)

	gateway.LogPorts(result.Access)
	gateway.AttachLogger(result.Access)

	fmt.Println("Logging MIDI messages... Press Ctrl+C to exit.")
	<-ctx.Done()
}

func closeGateway(gateway *midi.Gateway, log contracts.Logger) {
	if err := gateway.Close(); err != nil && !errors.Is(err, midi.ErrNoAccess) {
		log.Warn("Closing MIDI access", log.Field().Error("error", err))
	}
}
