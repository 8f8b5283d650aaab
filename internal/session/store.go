package session

import (
	"context"

	"github.com/rs/zerolog"
)

// cartKeyPrefix distinguishes cart-id keys from state keys in the shared
// namespace. The prefix matches the deployed store layout, so existing
// conversations keep their carts across releases.
const cartKeyPrefix = "cart_"

// CartCreator creates a cart on the e-commerce backend. Implemented by the
// moltin client.
type CartCreator interface {
	CreateCart(ctx context.Context, name string) (string, error)
}

// Store maps a session id to its conversation state and its backend cart id.
type Store struct {
	kv    KV
	carts CartCreator
	log   zerolog.Logger
}

// NewStore builds a Store over kv, using carts for lazy cart creation.
func NewStore(kv KV, carts CartCreator, log zerolog.Logger) *Store {
	return &Store{kv: kv, carts: carts, log: log}
}

// State returns the session's stored conversation state, with found=false
// when the session has never been seen.
func (s *Store) State(ctx context.Context, sessionID string) (string, bool, error) {
	return s.kv.Get(ctx, sessionID)
}

// SetState persists the session's conversation state.
func (s *Store) SetState(ctx context.Context, sessionID, state string) error {
	return s.kv.Set(ctx, sessionID, state)
}

// CartID returns the session's backend cart id, creating a cart named after
// the session on first use and persisting the mapping.
//
// The lookup-create-store sequence is not transactional: two concurrent
// events for the same session could each create a cart, with the second
// mapping winning. A session is driven by one human pressing one button at a
// time, so the race is accepted rather than locked around.
func (s *Store) CartID(ctx context.Context, sessionID string) (string, error) {
	key := cartKeyPrefix + sessionID

	cartID, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if found {
		return cartID, nil
	}

	cartID, err = s.carts.CreateCart(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if err := s.kv.Set(ctx, key, cartID); err != nil {
		return "", err
	}
	s.log.Info().Str("session", sessionID).Str("cart_id", cartID).Msg("created cart")
	return cartID, nil
}
