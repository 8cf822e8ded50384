package nativemsg

// Emitter sends unsolicited event frames to the extension, such as dedupe
// progress ticks.
type Emitter struct {
	codec *Codec
}

// NewEmitter creates an event emitter over the session codec.
func NewEmitter(codec *Codec) *Emitter {
	return &Emitter{codec: codec}
}

// Emit sends one event frame.
func (e *Emitter) Emit(event string, payload any) error {
	return e.codec.Write(map[string]any{"event": event, "data": payload})
}
