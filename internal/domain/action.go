package domain

import (
	"fmt"
	"strings"
	"time"
)

type ActionType int

const (
	Pickup ActionType = iota + 1
	DropOff
)

func (t ActionType) String() string {
	switch t {
	case Pickup:
		return "pickup"
	case DropOff:
		return "drop_off"
	default:
		return fmt.Sprintf("ActionType(%d)", int(t))
	}
}

// Parse the action type names used in solution files.
func ParseActionType(s string) (ActionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pickup":
		return Pickup, nil
	case "drop_off", "dropoff", "drop-off":
		return DropOff, nil
	default:
		return 0, fmt.Errorf("parse action type: unknown type %q", s)
	}
}

// Represents a single pickup or drop-off stop of a request.
// Actions are created together with their Request and never change afterwards.
type Action struct {
	ID          int
	Node        Node
	MinTime     time.Time
	MaxTime     time.Time
	Type        ActionType
	Request     *Request
	ServiceTime time.Duration
}

func (a *Action) String() string {
	return fmt.Sprintf("%d %s [%s, %s], %s", a.ID, a.Type, a.MinTime.Format(time.TimeOnly), a.MaxTime.Format(time.TimeOnly), a.Node)
}
