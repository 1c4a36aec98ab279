package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bannerloop/internal/domain"
	"bannerloop/internal/eventbus"
)

// ErrBadCommand is returned for frames that are not a usable command
var ErrBadCommand = errors.New("bad remote command")

// envelope is the wire format of every frame sent to clients
type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

// indexData is the payload of an "index" frame
type indexData struct {
	Index int `json:"index"`
	Count int `json:"count"`
}

// command is the wire format of a frame sent by clients
type command struct {
	Action string `json:"action"`
	Index  *int   `json:"index,omitempty"`
}

// ParseCommand decodes {"action":"next"|"previous"|"goto","index":n}.
// "goto" requires a non-negative index.
func ParseCommand(data []byte) (eventbus.RemoteCommandEvent, error) {
	var c command
	if err := json.Unmarshal(data, &c); err != nil {
		return eventbus.RemoteCommandEvent{}, fmt.Errorf("%w: %v", ErrBadCommand, err)
	}

	switch c.Action {
	case "next", "previous":
		return eventbus.RemoteCommandEvent{Action: c.Action}, nil
	case "goto":
		if c.Index == nil {
			return eventbus.RemoteCommandEvent{}, fmt.Errorf("%w: goto without index", ErrBadCommand)
		}
		if *c.Index < 0 {
			return eventbus.RemoteCommandEvent{}, fmt.Errorf("%w: negative index %d", ErrBadCommand, *c.Index)
		}
		return eventbus.RemoteCommandEvent{Action: c.Action, Index: *c.Index}, nil
	default:
		return eventbus.RemoteCommandEvent{}, fmt.Errorf("%w: unknown action %q", ErrBadCommand, c.Action)
	}
}

func encodeIndex(p domain.Position, at time.Time) ([]byte, error) {
	ts := at.UTC()
	return json.Marshal(envelope{
		Type: "index",
		Ts:   &ts,
		Data: indexData{Index: p.Index, Count: p.Count},
	})
}
