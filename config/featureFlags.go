package config

import (
	"os"
	"strings"
)

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// DebugBackorder turns on info-level tracing of backorder resolution and transfer updates.
//
// Set via env:
// - DEBUG_BACKORDER=true
func DebugBackorder() bool {
	return envBool("DEBUG_BACKORDER")
}

// StrictTransferTransitions rejects transfer status moves that go backwards or leave a
// terminal state (completed, cancelled). Off by default: any valid status may be written.
//
// Set via env:
// - STRICT_TRANSFER_TRANSITIONS=true
func StrictTransferTransitions() bool {
	return envBool("STRICT_TRANSFER_TRANSITIONS")
}
