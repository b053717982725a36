package contracts

// BackendConfig holds configuration shared by the OS MIDI backends.
type BackendConfig struct {
	ClientName string // Name the MIDI client registers with the host (CoreMIDI client name).
}

// ClientOptions defines the configuration options for the MIDI gateway.
type ClientOptions struct {
	Logger        Logger         // Logger for diagnostics.
	LogLevel      LogLevel       // Level of logging to use.
	LogFilePath   string         // File path for logging if file logging is enabled.
	Console       Console        // Destination of the user-facing lines.
	BackendConfig *BackendConfig // Configuration for the OS backend.
	Backend       Backend        // Overrides the OS backend when set.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the MIDI gateway.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the MIDI gateway.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile sends diagnostics to the file at path.
func WithLogFile(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithConsole sets where the gateway writes its user-facing lines.
func WithConsole(c Console) Option {
	return func(opts *ClientOptions) {
		opts.Console = c
	}
}

// WithBackendConfig sets the OS backend configuration.
func WithBackendConfig(config BackendConfig) Option {
	return func(opts *ClientOptions) {
		opts.BackendConfig = &config
	}
}

// WithBackend replaces the OS backend, e.g. with a virtual one.
func WithBackend(b Backend) Option {
	return func(opts *ClientOptions) {
		opts.Backend = b
	}
}
