package kernel

// Error describes an error raised by the paging code or the monitor. Errors
// are declared as package-level pointers and compared by identity, so code
// running under the monitor lock can report failures without allocating.
// Module names the package that raised the error and is printed by the
// monitor in front of the message.
type Error struct {
	// Module is the short name of the package that raised the error.
	Module string

	// Message is the human readable description shown to the user.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
