package sv92

// SubscriberHandler is implemented by callers of Subscriber to receive
// decoded sampled value frames. Handlers are invoked synchronously from the
// subscriber's dispatch goroutine; a handler that blocks delays subsequent
// frames on the same subscriber.
type SubscriberHandler interface {
	// SampledValueHandler is called for every frame that decodes as a
	// well-formed sampled value ASDU.
	SampledValueHandler(frame *DecodedFrame) error

	// MalformedFrameHandler is called for link-layer payloads that carry
	// the SV EtherType but fail to decode as a valid ASDU, and for payloads
	// too short to hold an Ethernet header. Frames with any other EtherType
	// are only counted. Returning an error only logs; it never stops the
	// subscriber.
	MalformedFrameHandler(raw []byte, err error) error
}

// FrameHandlerFunc adapts a plain function to SubscriberHandler, ignoring
// malformed frames, for the common case of only caring about good samples.
type FrameHandlerFunc func(frame *DecodedFrame) error

func (f FrameHandlerFunc) SampledValueHandler(frame *DecodedFrame) error { return f(frame) }
func (f FrameHandlerFunc) MalformedFrameHandler([]byte, error) error     { return nil }
