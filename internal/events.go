package internal

import (
	"context"
	"fmt"
)

// EventType enumerates the lifecycle events the observed host can report.
type EventType string

const (
	EventSessionStart     EventType = "SESSION_START"
	EventSessionStop      EventType = "SESSION_STOP"
	EventTerminalOpen     EventType = "TERMINAL_OPEN"
	EventTerminalClose    EventType = "TERMINAL_CLOSE"
	EventBreakpointAdd    EventType = "BREAKPOINT_ADD"
	EventBreakpointRemove EventType = "BREAKPOINT_REMOVE"
)

// LifecycleEvent is a structured host event. Breakpoint events carry either
// a file position or a function name.
type LifecycleEvent struct {
	Type     EventType
	Name     string // session or terminal name
	FilePath string
	Line     int
	Function string
}

// ClassifyEvent maps a lifecycle event to its fixed role and content
// template and appends the record. Events bypass the text pipeline entirely:
// no noise rejection, no validity gate.
func (c *Classifier) ClassifyEvent(ctx context.Context, sessionID string, ev LifecycleEvent) (*Record, error) {
	var (
		role Role
		text string
	)
	switch ev.Type {
	case EventSessionStart:
		role, text = RoleUser, fmt.Sprintf("debug session started: %s", ev.Name)
	case EventSessionStop:
		role, text = RoleUser, fmt.Sprintf("debug session stopped: %s", ev.Name)
	case EventTerminalOpen:
		role, text = RoleAgentBuilder, fmt.Sprintf("terminal created: %s", ev.Name)
	case EventTerminalClose:
		role, text = RoleAgentBuilder, fmt.Sprintf("terminal closed: %s", ev.Name)
	case EventBreakpointAdd:
		role, text = RoleUser, fmt.Sprintf("breakpoint set: %s", ev.location())
	case EventBreakpointRemove:
		role, text = RoleUser, fmt.Sprintf("breakpoint removed: %s", ev.location())
	default:
		return nil, nil
	}

	rec := NewRecord(sessionID, role, text, nil)
	if err := c.store.Append(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (ev LifecycleEvent) location() string {
	if ev.FilePath != "" {
		return fmt.Sprintf("%s:%d", ev.FilePath, ev.Line)
	}
	return ev.Function
}
