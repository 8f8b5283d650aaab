package moltin

import (
	"context"
	"net/http"
)

// CreateCustomer submits a name/email pair and returns the backend-assigned
// customer id. Email syntax is not validated here; the backend is the source
// of truth for rejecting malformed input.
func (c *Client) CreateCustomer(ctx context.Context, name, email string) (string, error) {
	body := map[string]any{"data": map[string]any{
		"type":  "customer",
		"name":  name,
		"email": email,
	}}
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/v2/customers", body, &resp); err != nil {
		return "", err
	}
	return resp.Data.ID, nil
}
