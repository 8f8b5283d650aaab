// Package domain defines the core storefront entities exchanged between the
// e-commerce backend client, the session store, and the conversation state
// machine. These types are plain values: all persistence lives either in the
// remote backend or in the key-value session store.
package domain

// Product is a catalog listing entry, as returned by the product listing
// endpoint. Only the fields the bot renders are modeled.
type Product struct {
	// ID is the backend-assigned product identifier. It must never contain
	// the quantity-payload delimiter used by the conversation keyboards.
	ID string `json:"id"`
	// Name is the display name shown on menu buttons.
	Name string `json:"name"`
}

// ProductDetail is a single product's detail view.
type ProductDetail struct {
	ID string `json:"id"`
	// Description is backend-supplied rich text (HTML) rendered verbatim.
	Description string `json:"description"`
	// ImageID references the product's main image file, empty when the
	// product has no main-image relationship.
	ImageID string `json:"image_id,omitempty"`
}

// CartItem is one line item inside a cart. Price fields are display strings
// formatted by the backend; the bot must never parse or recompute them.
type CartItem struct {
	// ID is the line item's own identifier within its cart, used as the
	// callback payload of the item's remove button.
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	// UnitPrice is the formatted per-unit price (e.g. "$10.00").
	UnitPrice string `json:"unit_price"`
	// Subtotal is the formatted line total (unit price times quantity).
	Subtotal string `json:"subtotal"`
}
