package errz

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Structural errors
//   - E2xxx: Configuration and toolchain errors
//   - E3xxx: Runtime errors
type ErrorCode string

const (
	// Structural errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unmatched loop-start
	E1002 ErrorCode = "E1002" // Unmatched loop-end

	// Configuration and toolchain errors (E2xxx)
	E2001 ErrorCode = "E2001" // Invalid configuration
	E2002 ErrorCode = "E2002" // Toolchain failure
	E2003 ErrorCode = "E2003" // I/O failure

	// Runtime errors (E3xxx)
	E3001 ErrorCode = "E3001" // Pointer out of range
	E3002 ErrorCode = "E3002" // End of input
	E3003 ErrorCode = "E3003" // Multibyte input
	E3004 ErrorCode = "E3004" // Execution halted
)

var codeDescriptions = map[ErrorCode]string{
	E1001: "unmatched loop-start",
	E1002: "unmatched loop-end",

	E2001: "invalid configuration",
	E2002: "toolchain failure",
	E2003: "i/o failure",

	E3001: "pointer out of range",
	E3002: "end of input",
	E3003: "multibyte input",
	E3004: "execution halted",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "structural"
	case '2':
		return "setup"
	case '3':
		return "runtime"
	default:
		return "unknown"
	}
}
