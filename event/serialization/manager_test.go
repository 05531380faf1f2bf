package serialization_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/devskit/eventcore/event"
	"github.com/devskit/eventcore/event/serialization"
)

var _ = Describe("Manager", func() {
	var (
		buffer  *bytes.Buffer
		manager *serialization.Manager
	)

	BeforeEach(func() {
		buffer = &bytes.Buffer{}
		manager = serialization.NewManager(serialization.NewJSONCodec())
	})

	It("should roundtrip an event through its kind tag", func() {
		original := &tempReadingEvent{
			EventBase: event.NewEventBase(),
			Sensor:    "cpu0",
			Celsius:   61.5,
		}

		err := manager.Serialize(buffer, original)
		Expect(err).ToNot(HaveOccurred())

		decoded, err := manager.Deserialize(buffer)
		Expect(err).ToNot(HaveOccurred())
		Expect(decoded).To(BeAssignableToTypeOf(&tempReadingEvent{}))

		reading := decoded.(*tempReadingEvent)
		Expect(reading.Sensor).To(Equal("cpu0"))
		Expect(reading.Celsius).To(Equal(61.5))
	})

	It("should preserve event identity across the roundtrip", func() {
		original := &tempReadingEvent{
			EventBase: event.NewEventBase(),
			Sensor:    "cpu0",
		}

		err := manager.Serialize(buffer, original)
		Expect(err).ToNot(HaveOccurred())

		decoded, err := manager.Deserialize(buffer)
		Expect(err).ToNot(HaveOccurred())

		reading := decoded.(*tempReadingEvent)
		Expect(reading.EventID()).To(Equal(original.EventID()))
		Expect(reading.EventID()).ToNot(BeEmpty())
	})

	It("should carry the kind tag on the wire", func() {
		err := manager.Serialize(buffer, &tempReadingEvent{Sensor: "cpu0"})
		Expect(err).ToNot(HaveOccurred())

		Expect(buffer.String()).To(ContainSubstring(`"kind":"temp_reading"`))
	})

	It("should refuse an unregistered kind on the wire", func() {
		buffer.WriteString(`{"kind":"never_registered"}` + "\n")

		decoded, err := manager.Deserialize(buffer)
		Expect(err).To(HaveOccurred())
		Expect(decoded).To(BeNil())
	})

	It("should refuse a wire form without a kind tag", func() {
		buffer.WriteString(`{"sensor":"cpu0"}` + "\n")

		_, err := manager.Deserialize(buffer)
		Expect(err).To(HaveOccurred())
	})

	It("should refuse a kind that is not serializable", func() {
		err := manager.Serialize(buffer, &opaqueEvent{})
		Expect(err).To(HaveOccurred())
	})
})
