package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// State is one step of the conversation. The underlying strings are the
// values persisted in the session store; they match the deployed store
// contents, so in-flight conversations survive a release.
type State string

const (
	// StateStart renders the product menu. It is entered via /start only and
	// immediately transitions to StateMenu.
	StateStart State = "START"
	// StateMenu means the product menu is on screen.
	StateMenu State = "HANDLE_MENU"
	// StateProduct means a product's description is on screen.
	StateProduct State = "HANDLE_DESCRIPTION"
	// StateCart means the cart view is on screen.
	StateCart State = "HANDLE_CART"
	// StateAwaitEmail means the bot asked for an email address. The state is
	// sticky: every further text message is treated as one more submission.
	StateAwaitEmail State = "WAITING_EMAIL"
)

// countDelim separates product id and quantity in a quantity button's
// callback payload ("<product_id>_count_<qty>"). The encoding is kept
// wire-compatible with keyboards already delivered to chats; product ids
// must never contain this substring.
const countDelim = "_count_"

// quantityPayload encodes an add-to-cart button payload.
func quantityPayload(productID string, qty int) string {
	return productID + countDelim + strconv.Itoa(qty)
}

// parseQuantityPayload splits an add-to-cart payload back into product id
// and quantity. The caller has already tested for countDelim.
func parseQuantityPayload(value string) (productID string, qty int, err error) {
	parts := strings.SplitN(value, countDelim, 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("malformed quantity payload %q", value)
	}
	qty, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("malformed quantity in payload %q: %w", value, err)
	}
	if qty <= 0 {
		return "", 0, fmt.Errorf("quantity must be positive in payload %q", value)
	}
	return parts[0], qty, nil
}
