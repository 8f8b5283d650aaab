package bot

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"tg-store-bot/internal/domain"
)

// ErrNoState is returned when a non-start event arrives for a session that
// has no recorded conversation state (the user never sent /start).
var ErrNoState = errors.New("no conversation state recorded for session")

// Catalog is the read-only product surface the machine consumes.
type Catalog interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.ProductDetail, error)
	ImageURL(ctx context.Context, fileID string) (string, error)
}

// Carts mutates and reads a single backend cart.
type Carts interface {
	AddItem(ctx context.Context, cartID, productID string, quantity int) ([]domain.CartItem, error)
	Items(ctx context.Context, cartID string) ([]domain.CartItem, error)
	Total(ctx context.Context, cartID string) (string, error)
	RemoveItem(ctx context.Context, cartID, itemID string) error
}

// Customers registers checkout contacts.
type Customers interface {
	CreateCustomer(ctx context.Context, name, email string) (string, error)
}

// Sessions persists per-session conversation state and cart identity.
// Implemented by session.Store.
type Sessions interface {
	State(ctx context.Context, sessionID string) (string, bool, error)
	SetState(ctx context.Context, sessionID, state string) error
	CartID(ctx context.Context, sessionID string) (string, error)
}

// handlerFunc executes one state's side effects for an event and returns the
// next state.
type handlerFunc func(ctx context.Context, ev Event) (State, error)

// Machine is the conversation orchestrator. Given an event it resolves the
// session's current state, dispatches to the state's handler, and persists
// the returned next state.
//
// Machine holds no per-session state of its own; everything mutable lives in
// the session store, so events for different sessions may be handled
// concurrently.
type Machine struct {
	catalog   Catalog
	carts     Carts
	customers Customers
	sessions  Sessions
	send      Sender
	log       zerolog.Logger

	handlers map[State]handlerFunc
}

// Deps bundles the machine's collaborators.
type Deps struct {
	Catalog   Catalog
	Carts     Carts
	Customers Customers
	Sessions  Sessions
	Sender    Sender
	Logger    zerolog.Logger
}

// NewMachine builds a Machine with the full state-to-handler table.
func NewMachine(d Deps) *Machine {
	m := &Machine{
		catalog:   d.Catalog,
		carts:     d.Carts,
		customers: d.Customers,
		sessions:  d.Sessions,
		send:      d.Sender,
		log:       d.Logger,
	}
	m.handlers = map[State]handlerFunc{
		StateStart:      m.handleStart,
		StateMenu:       m.handleMenu,
		StateProduct:    m.handleProduct,
		StateCart:       m.handleCart,
		StateAwaitEmail: m.handleEmail,
	}
	return m
}

// Handle processes one inbound event to completion.
//
// This is the sole error-recovery boundary: any failure from a handler (or
// from the state lookup itself) is logged and swallowed, and the session's
// persisted state is left untouched. The user's next event therefore
// re-enters the same state, which gives retry-on-next-action behavior
// without explicit retry logic.
func (m *Machine) Handle(ctx context.Context, ev Event) {
	log := m.log.With().
		Str("session", ev.Session).
		Stringer("kind", ev.Kind).
		Str("value", ev.Value).
		Logger()

	state, err := m.stateFor(ctx, ev)
	if err != nil {
		handlerErrors.WithLabelValues("lookup").Inc()
		log.Error().Err(err).Msg("resolving conversation state")
		return
	}

	handler, ok := m.handlers[state]
	if !ok {
		handlerErrors.WithLabelValues("lookup").Inc()
		log.Error().Str("state", string(state)).Msg("unknown stored state")
		return
	}

	eventsTotal.WithLabelValues(string(state), ev.Kind.String()).Inc()
	start := time.Now()
	next, err := handler(ctx, ev)
	handlerDuration.WithLabelValues(string(state)).Observe(time.Since(start).Seconds())
	if err != nil {
		handlerErrors.WithLabelValues(string(state)).Inc()
		log.Error().Err(err).Str("state", string(state)).Msg("handler failed, state preserved")
		return
	}

	if err := m.sessions.SetState(ctx, ev.Session, string(next)); err != nil {
		handlerErrors.WithLabelValues(string(state)).Inc()
		log.Error().Err(err).Str("next_state", string(next)).Msg("persisting next state")
		return
	}
	log.Debug().Str("state", string(state)).Str("next_state", string(next)).Msg("event handled")
}

// stateFor resolves the state an event is handled in. /start always re-enters
// the initial state; anything else requires a previously stored state.
func (m *Machine) stateFor(ctx context.Context, ev Event) (State, error) {
	if ev.Kind == KindCommand && ev.Value == "/start" {
		return StateStart, nil
	}
	raw, found, err := m.sessions.State(ctx, ev.Session)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNoState
	}
	return State(raw), nil
}
