package hardware

import "carevox/utils"

// Trigger is the source of interaction start events, typically a physical
// button. The engine registers exactly one consumer of Events.
type Trigger interface {
	Events() <-chan struct{}
}

// ButtonTrigger bridges an interrupt-style button callback onto a channel.
// Press only signals; it never runs turn logic. A press that arrives while
// a previous event is still pending is dropped, not queued.
type ButtonTrigger struct {
	events chan struct{}
}

func NewButtonTrigger() *ButtonTrigger {
	return &ButtonTrigger{events: make(chan struct{}, 1)}
}

// Press is safe to call from any goroutine, including hardware interrupt
// callbacks.
func (t *ButtonTrigger) Press() {
	select {
	case t.events <- struct{}{}:
	default:
		utils.GetLogger().Debug("Button press dropped, event already pending")
	}
}

func (t *ButtonTrigger) Events() <-chan struct{} {
	return t.events
}
