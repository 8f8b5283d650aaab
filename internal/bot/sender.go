package bot

import "context"

// Button is a selectable inline-keyboard button descriptor. Data is the
// opaque callback payload delivered back when the button is pressed.
type Button struct {
	Label string
	Data  string
}

// Sender delivers outbound messages to a session's chat. The state machine
// only produces text/photo descriptors with optional button rows; how they
// are rendered is the messaging front end's business.
type Sender interface {
	SendText(ctx context.Context, session, text string, keyboard [][]Button) error
	SendPhoto(ctx context.Context, session, url, caption string, keyboard [][]Button) error
}
