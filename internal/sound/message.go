package sound

import "fmt"

// Message types sent by a capture client.
const (
	MsgReady  = "ready"  // microphone permission granted
	MsgRevoke = "revoke" // microphone stopped
	MsgSample = "sample" // one loudness reading
)

// Message is the JSON frame a capture client sends over the feed socket.
// A sample carries either a precomputed intensity or raw analyser bins.
type Message struct {
	Type      string   `json:"type"`
	Intensity *float64 `json:"intensity,omitempty"`
	Bins      []int    `json:"bins,omitempty"`
}

// Reading extracts the intensity carried by a sample message.
func (m Message) Reading() (float64, error) {
	if m.Type != MsgSample {
		return 0, fmt.Errorf("sound: message %q carries no reading", m.Type)
	}
	if m.Intensity != nil {
		return *m.Intensity, nil
	}
	if len(m.Bins) == 0 {
		return 0, fmt.Errorf("sound: sample without intensity or bins")
	}
	bins := make([]uint8, len(m.Bins))
	for i, b := range m.Bins {
		bins[i] = uint8(max(0, min(255, b)))
	}
	return AverageBins(bins), nil
}

// Apply feeds the message into a gate: ready/revoke drive the lifecycle and
// samples are stored once permission is granted.
func (m Message) Apply(g *Gate) error {
	switch m.Type {
	case MsgReady:
		g.Grant()
		return nil
	case MsgRevoke:
		g.Revoke()
		return nil
	case MsgSample:
		v, err := m.Reading()
		if err != nil {
			return err
		}
		return g.Store(v)
	default:
		return fmt.Errorf("sound: unknown message type %q", m.Type)
	}
}
