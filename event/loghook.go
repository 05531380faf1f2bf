package event

import (
	"log"
)

// A LogHook is a hook that is responsible for recording information about
// the events that flow through a publisher.
type LogHook interface {
	Hook
}

// LogHookBase provides the common logic for all LogHooks
type LogHookBase struct {
	*log.Logger
}
