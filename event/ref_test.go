package event

import (
	gomock "go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type pooledEvent struct {
	EventBase

	releaseCount int
}

func (e *pooledEvent) Kind() Kind {
	return "pooled"
}

func (e *pooledEvent) Release() {
	e.releaseCount++
}

var _ = Describe("Publisher and Ref", func() {
	var (
		mockCtrl  *gomock.Controller
		publisher *Publisher
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		publisher = NewPublisher()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should keep the event alive while any holder remains", func() {
		evt := &pooledEvent{}

		first := publisher.Publish(evt)
		second := first.Retain()

		first.Drop()
		Expect(evt.releaseCount).To(Equal(0))
		Expect(publisher.LiveCount()).To(Equal(int64(1)))
		Expect(second.Event()).To(BeIdenticalTo(evt))

		second.Drop()
		Expect(evt.releaseCount).To(Equal(1))
		Expect(publisher.LiveCount()).To(Equal(int64(0)))
	})

	It("should release exactly once regardless of drop order", func() {
		evt := &pooledEvent{}

		first := publisher.Publish(evt)
		second := first.Retain()
		third := second.Retain()

		second.Drop()
		third.Drop()
		first.Drop()

		Expect(evt.releaseCount).To(Equal(1))
	})

	It("should panic on double drop", func() {
		ref := publisher.Publish(&pooledEvent{})

		ref.Drop()

		Expect(func() { ref.Drop() }).To(Panic())
	})

	It("should panic on use after drop", func() {
		ref := publisher.Publish(&pooledEvent{})

		ref.Drop()

		Expect(func() { ref.Event() }).To(Panic())
		Expect(func() { ref.Retain() }).To(Panic())
	})

	It("should panic on publishing nil", func() {
		Expect(func() { publisher.Publish(nil) }).To(Panic())
	})

	It("should invoke hooks on publish, retain, and release", func() {
		evt := &pooledEvent{}
		hook := NewMockHook(mockCtrl)

		publisher.AcceptHook(hook)

		hook.EXPECT().Func(HookCtx{
			Domain: publisher,
			Pos:    HookPosPublish,
			Item:   evt,
		})
		ref := publisher.Publish(evt)

		hook.EXPECT().Func(HookCtx{
			Domain: publisher,
			Pos:    HookPosRetain,
			Item:   evt,
		})
		second := ref.Retain()

		hook.EXPECT().Func(HookCtx{
			Domain: publisher,
			Pos:    HookPosRelease,
			Item:   evt,
		})
		ref.Drop()
		second.Drop()
	})

	It("should name the producer in the publish hook", func() {
		evt := &pooledEvent{}
		src := MakeEntityBase("generator")
		hook := NewMockHook(mockCtrl)

		publisher.AcceptHook(hook)

		hook.EXPECT().Func(HookCtx{
			Domain: publisher,
			Pos:    HookPosPublish,
			Item:   evt,
			Detail: src,
		})
		hook.EXPECT().Func(HookCtx{
			Domain: publisher,
			Pos:    HookPosRelease,
			Item:   evt,
		})

		ref := publisher.PublishFrom(src, evt)
		ref.Drop()
	})
})
