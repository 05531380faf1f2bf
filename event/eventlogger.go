package event

import (
	"log"
)

// EventLogger is a hook that prints a line for every event published through
// the publisher it is attached to.
type EventLogger struct {
	LogHookBase
}

// NewEventLogger returns a new EventLogger which will write into the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger
	return h
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosPublish {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	src, ok := ctx.Detail.(Entity)
	if ok && src != nil {
		h.Printf("%s, %s ->", evt.Kind(), src.Name())
	} else {
		h.Printf("%s", evt.Kind())
	}
}
