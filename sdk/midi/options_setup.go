package midi

import (
	"os"

	"github.com/leandrodaf/pianomidi/internal/console"
	"github.com/leandrodaf/pianomidi/internal/logger"
	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

// DefaultClientName is the name the gateway registers with the host MIDI system.
const DefaultClientName = "Go MIDI Gateway"

// applyDefaultOptions sets default values for ClientOptions if not explicitly provided.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogFilePath != "" {
		if err := options.Logger.SetDestination(contracts.FileLog, options.LogFilePath); err != nil {
			return *options, err
		}
	}
	if options.Console == nil {
		options.Console = console.NewStream(os.Stdout, os.Stderr)
	}
	if options.BackendConfig == nil {
		options.BackendConfig = &contracts.BackendConfig{ClientName: DefaultClientName}
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
