package event

// HookPos defines the enum of possible hooking positions
type HookPos struct {
	Name string
}

// HookPosPublish is a hook position that triggers when a producer publishes
// an event.
var HookPosPublish = &HookPos{Name: "Publish"}

// HookPosRetain is a hook position that triggers when a holder retains an
// extra reference to a published event.
var HookPosRetain = &HookPos{Name: "Retain"}

// HookPosRelease is a hook position that triggers after the last holder of a
// published event drops its reference.
var HookPosRelease = &HookPos{Name: "Release"}

// HookCtx is the context that holds all the information about the site that
// a hook is triggered
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable defines an object that accept Hooks
type Hookable interface {
	// AcceptHook registers a hook
	AcceptHook(hook Hook)
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other type that
// implement the Hookable interface.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase object
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.Hooks = make([]Hook, 0)
	return h
}

// AcceptHook register a hook
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook triggers the register Hooks
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
