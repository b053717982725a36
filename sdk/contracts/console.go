package contracts

// Console receives the user-facing output lines of the program.
// Log lines go to the standard stream and Error lines to the error stream.
type Console interface {
	Log(line string)
	Error(line string)
}
