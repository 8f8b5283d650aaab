// Package bot implements the conversational storefront: a finite-state
// machine that maps incoming user events to catalog, cart, and customer
// operations, plus the Telegram adapter that feeds it.
package bot

// Kind tags the origin of an inbound event. It decides which part of the
// update carries the value matched against the transition table: commands
// and free text use the literal message text, button presses use the
// callback payload the pressed button was built with.
type Kind int

const (
	// KindCommand is a slash command, e.g. "/start".
	KindCommand Kind = iota
	// KindText is a free-text message.
	KindText
	// KindButton is an inline-keyboard press carrying a callback payload.
	KindButton
)

// String implements fmt.Stringer for log fields and metric labels.
func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindText:
		return "text"
	case KindButton:
		return "button"
	default:
		return "unknown"
	}
}

// Event is one inbound user interaction, normalized away from the messaging
// framework's update shape.
type Event struct {
	// Session identifies the conversation (the stringified chat id).
	Session string
	// UserName is the sender's display name, used for customer registration.
	UserName string
	// Kind tags the event origin.
	Kind Kind
	// Value is the matched event value: command text, message text, or
	// button payload depending on Kind.
	Value string
}
