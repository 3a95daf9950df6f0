package client

import "encoding/json"

// State describes the connection lifecycle. Transitions happen only inside
// this package's connection management; other components read it through
// State() and IsConnected().
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateHandshaking
	StateStreaming
	StateClosing
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateHandshaking:
		return "handshaking"
	case StateStreaming:
		return "streaming"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the state by name so snapshots stay readable
// without callers converting the enum themselves.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
