package event

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type jobStartEvent struct {
	EventBase

	JobID string
}

func (e *jobStartEvent) Kind() Kind {
	return "job_start"
}

type jobDoneEvent struct {
	EventBase
}

func (e *jobDoneEvent) Kind() Kind {
	return "job_done"
}

var _ = Describe("Kind Registry", func() {
	BeforeEach(func() {
		if !Registered("job_start") {
			MustRegister(&jobStartEvent{})
		}
		if !Registered("job_done") {
			MustRegister(&jobDoneEvent{})
		}
	})

	It("should reject duplicate registration", func() {
		err := Register(&jobStartEvent{})
		Expect(err).To(HaveOccurred())
	})

	It("should mint a fresh instance of a registered kind", func() {
		evt, err := NewOfKind("job_start")

		Expect(err).ToNot(HaveOccurred())
		Expect(evt).To(BeAssignableToTypeOf(&jobStartEvent{}))
		Expect(evt.Kind()).To(Equal(Kind("job_start")))
	})

	It("should refuse to mint an unknown kind", func() {
		evt, err := NewOfKind("no_such_kind")

		Expect(err).To(HaveOccurred())
		Expect(evt).To(BeNil())
	})

	It("should report kinds deterministically", func() {
		kinds := Kinds()

		Expect(kinds).To(ContainElement(Kind("job_done")))
		Expect(kinds).To(ContainElement(Kind("job_start")))
		Expect(kinds).To(Equal(Kinds()))

		for i := 1; i < len(kinds); i++ {
			Expect(kinds[i-1] < kinds[i]).To(BeTrue())
		}
	})

	It("should report kind stability per instance", func() {
		a := &jobStartEvent{}
		b := &jobStartEvent{}
		c := &jobDoneEvent{}

		Expect(a.Kind()).To(Equal(a.Kind()))
		Expect(a.Kind()).To(Equal(b.Kind()))
		Expect(a.Kind()).ToNot(Equal(c.Kind()))
	})
})

var _ = Describe("Checked downcast", func() {
	It("should recover the concrete kind", func() {
		var evt Event = &jobStartEvent{JobID: "42"}

		start, err := As[*jobStartEvent](evt)

		Expect(err).ToNot(HaveOccurred())
		Expect(start.JobID).To(Equal("42"))
	})

	It("should fail with a CastError on the wrong kind", func() {
		var evt Event = &jobDoneEvent{}

		_, err := As[*jobStartEvent](evt)

		Expect(err).To(HaveOccurred())

		castErr, ok := err.(*CastError)
		Expect(ok).To(BeTrue())
		Expect(castErr.Have).To(Equal(Kind("job_done")))
		Expect(castErr.Error()).To(ContainSubstring("job_done"))
		Expect(castErr.Error()).To(ContainSubstring("jobStartEvent"))
	})
})
