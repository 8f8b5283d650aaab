package moltin

import (
	"context"
	"net/http"

	"tg-store-bot/internal/domain"
)

// Products fetches the product listing in a single call. If the backend
// paginates, only the first page is observed; the bot's menu is expected to
// stay within one page.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var resp struct {
		Data []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/v2/products", nil, &resp); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(resp.Data))
	for _, p := range resp.Data {
		products = append(products, domain.Product{ID: p.ID, Name: p.Name})
	}
	return products, nil
}

// Product fetches one product's detail view. ImageID is empty when the
// product carries no main-image relationship.
func (c *Client) Product(ctx context.Context, id string) (*domain.ProductDetail, error) {
	var resp struct {
		Data struct {
			ID            string `json:"id"`
			Description   string `json:"description"`
			Relationships struct {
				MainImage *struct {
					Data struct {
						ID string `json:"id"`
					} `json:"data"`
				} `json:"main_image"`
			} `json:"relationships"`
		} `json:"data"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/v2/products/"+id, nil, &resp); err != nil {
		return nil, err
	}

	detail := &domain.ProductDetail{
		ID:          resp.Data.ID,
		Description: resp.Data.Description,
	}
	if resp.Data.Relationships.MainImage != nil {
		detail.ImageID = resp.Data.Relationships.MainImage.Data.ID
	}
	return detail, nil
}

// ImageURL resolves an image file reference to a fetchable URL. A missing
// file surfaces as an error satisfying errors.Is(err, domain.ErrNotFound).
func (c *Client) ImageURL(ctx context.Context, fileID string) (string, error) {
	var resp struct {
		Data struct {
			Link struct {
				Href string `json:"href"`
			} `json:"link"`
		} `json:"data"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/v2/files/"+fileID, nil, &resp); err != nil {
		return "", err
	}
	return resp.Data.Link.Href, nil
}
