package moltin

import (
	"context"
	"fmt"
	"net/http"

	"tg-store-bot/internal/domain"
)

// cartItemData is the backend's line-item representation. Display prices are
// carried verbatim; no currency math happens on this side.
type cartItemData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Meta     struct {
		DisplayPrice struct {
			WithTax struct {
				Unit struct {
					Formatted string `json:"formatted"`
				} `json:"unit"`
				Value struct {
					Formatted string `json:"formatted"`
				} `json:"value"`
			} `json:"with_tax"`
		} `json:"display_price"`
	} `json:"meta"`
}

func (d cartItemData) item() domain.CartItem {
	return domain.CartItem{
		ID:        d.ID,
		Name:      d.Name,
		Quantity:  d.Quantity,
		UnitPrice: d.Meta.DisplayPrice.WithTax.Unit.Formatted,
		Subtotal:  d.Meta.DisplayPrice.WithTax.Value.Formatted,
	}
}

type cartItemsResponse struct {
	Data []cartItemData `json:"data"`
}

func (r cartItemsResponse) items() []domain.CartItem {
	items := make([]domain.CartItem, 0, len(r.Data))
	for _, d := range r.Data {
		items = append(items, d.item())
	}
	return items
}

// CreateCart creates a new backend cart named after the owning session and
// returns its identifier.
func (c *Client) CreateCart(ctx context.Context, name string) (string, error) {
	body := map[string]any{"data": map[string]any{"name": name}}
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/v2/carts", body, &resp); err != nil {
		return "", err
	}
	return resp.Data.ID, nil
}

// AddItem posts a new line item to the cart. The refreshed line-item listing
// is returned only when the backend reports 201 Created; on any other success
// status the result is nil and the caller must not assume the add succeeded.
func (c *Client) AddItem(ctx context.Context, cartID, productID string, quantity int) ([]domain.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	body := map[string]any{"data": map[string]any{
		"id":       productID,
		"type":     "cart_item",
		"quantity": quantity,
	}}
	var resp cartItemsResponse
	status, err := c.do(ctx, http.MethodPost, "/v2/carts/"+cartID+"/items", body, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, nil
	}
	return resp.items(), nil
}

// Items lists the cart's line items with backend-formatted prices.
func (c *Client) Items(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	var resp cartItemsResponse
	if _, err := c.do(ctx, http.MethodGet, "/v2/carts/"+cartID+"/items", nil, &resp); err != nil {
		return nil, err
	}
	return resp.items(), nil
}

// Total returns the cart's formatted grand total.
func (c *Client) Total(ctx context.Context, cartID string) (string, error) {
	var resp struct {
		Data struct {
			Meta struct {
				DisplayPrice struct {
					WithTax struct {
						Formatted string `json:"formatted"`
					} `json:"with_tax"`
				} `json:"display_price"`
			} `json:"meta"`
		} `json:"data"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/v2/carts/"+cartID, nil, &resp); err != nil {
		return "", err
	}
	return resp.Data.Meta.DisplayPrice.WithTax.Formatted, nil
}

// RemoveItem deletes one line item from the cart.
func (c *Client) RemoveItem(ctx context.Context, cartID, itemID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/v2/carts/"+cartID+"/items/"+itemID, nil, nil)
	return err
}
