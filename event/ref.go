package event

import (
	"log"
	"sync/atomic"
)

// A Publisher is the lifecycle domain for shared events. A producer publishes
// an event once and hands out one Ref per consumer. Hooks registered on the
// Publisher observe the publish, retain, and release of every event that
// goes through it.
//
// Events are expected to be frozen at publish time. Holders read the payload
// and must not mutate it; the convention is upheld by the surrounding
// engine, not checked here.
type Publisher struct {
	HookableBase

	liveCount int64
}

// NewPublisher creates a Publisher.
func NewPublisher() *Publisher {
	p := new(Publisher)
	return p
}

// Publish wraps an event in a Ref held by exactly one holder.
func (p *Publisher) Publish(evt Event) *Ref {
	return p.publish(evt, nil)
}

// PublishFrom is like Publish, but names the entity that produced the event.
// The producer travels in the Detail field of the publish hook context.
func (p *Publisher) PublishFrom(src Entity, evt Event) *Ref {
	return p.publish(evt, src)
}

func (p *Publisher) publish(evt Event, src Entity) *Ref {
	if evt == nil {
		log.Panic("publishing a nil event")
	}

	atomic.AddInt64(&p.liveCount, 1)

	s := &sharedEvent{
		evt:       evt,
		publisher: p,
		holders:   1,
	}

	p.InvokeHook(HookCtx{
		Domain: p,
		Pos:    HookPosPublish,
		Item:   evt,
		Detail: src,
	})

	return &Ref{shared: s}
}

// LiveCount returns the number of published events that still have at least
// one holder.
func (p *Publisher) LiveCount() int64 {
	return atomic.LoadInt64(&p.liveCount)
}

// sharedEvent is the state shared by all Refs to one published event.
type sharedEvent struct {
	evt       Event
	publisher *Publisher
	holders   int64
}

func (s *sharedEvent) retain() {
	if atomic.AddInt64(&s.holders, 1) <= 1 {
		log.Panic("retaining an event that is already released")
	}
}

func (s *sharedEvent) drop() {
	remaining := atomic.AddInt64(&s.holders, -1)
	if remaining < 0 {
		log.Panic("dropping an event that is already released")
	}

	if remaining > 0 {
		return
	}

	if releaser, ok := s.evt.(Releaser); ok {
		releaser.Release()
	}

	atomic.AddInt64(&s.publisher.liveCount, -1)

	s.publisher.InvokeHook(HookCtx{
		Domain: s.publisher,
		Pos:    HookPosRelease,
		Item:   s.evt,
	})
}

// A Ref is one holder's handle to a published event. Each Ref must be
// dropped exactly once. The event stays alive until every Ref to it is
// dropped; the last drop releases the payload resources.
type Ref struct {
	shared  *sharedEvent
	dropped int32
}

// Event returns the shared event payload.
func (r *Ref) Event() Event {
	if atomic.LoadInt32(&r.dropped) != 0 {
		log.Panic("using an event reference after dropping it")
	}

	return r.shared.evt
}

// Retain creates an independent handle for another holder.
func (r *Ref) Retain() *Ref {
	if atomic.LoadInt32(&r.dropped) != 0 {
		log.Panic("retaining an event reference after dropping it")
	}

	r.shared.retain()

	r.shared.publisher.InvokeHook(HookCtx{
		Domain: r.shared.publisher,
		Pos:    HookPosRetain,
		Item:   r.shared.evt,
	})

	return &Ref{shared: r.shared}
}

// Drop gives up this holder's reference. Dropping the last reference
// releases the event.
func (r *Ref) Drop() {
	if !atomic.CompareAndSwapInt32(&r.dropped, 0, 1) {
		log.Panic("dropping an event reference twice")
	}

	r.shared.drop()
}
