package moltin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

const cartItemsBody = `{"data":[{
	"id":"li-1",
	"name":"Salmon",
	"quantity":2,
	"meta":{"display_price":{"with_tax":{
		"unit":{"formatted":"$10.00"},
		"value":{"formatted":"$20.00"}
	}}}
}]}`

func TestCreateCart_NamedAfterSession(t *testing.T) {
	var gotBody map[string]map[string]any
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"/v2/carts": func(w http.ResponseWriter, r *http.Request) {
			requireBearer(t, r)
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Fatalf("decoding cart body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data":{"id":"cart-7"}}`))
		},
	})

	id, err := c.CreateCart(context.Background(), "12345")
	if err != nil {
		t.Fatalf("CreateCart: %v", err)
	}
	if id != "cart-7" {
		t.Fatalf("cart id = %q; want cart-7", id)
	}
	if gotBody["data"]["name"] != "12345" {
		t.Fatalf("cart name = %v; want session id", gotBody["data"]["name"])
	}
}

func TestAddItem_ReturnsItemsOnlyOnCreated(t *testing.T) {
	status := http.StatusCreated
	var gotBody map[string]map[string]any
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"/v2/carts/cart-7/items": func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Fatalf("decoding add body: %v", err)
			}
			w.WriteHeader(status)
			w.Write([]byte(cartItemsBody))
		},
	})

	items, err := c.AddItem(context.Background(), "cart-7", "p1", 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(items) != 1 || items[0].ID != "li-1" || items[0].UnitPrice != "$10.00" || items[0].Subtotal != "$20.00" {
		t.Fatalf("items = %+v", items)
	}
	if gotBody["data"]["type"] != "cart_item" || gotBody["data"]["quantity"] != float64(2) {
		t.Fatalf("add body = %v", gotBody)
	}

	// A 200 is success without confirmed creation: no items returned.
	status = http.StatusOK
	items, err = c.AddItem(context.Background(), "cart-7", "p1", 2)
	if err != nil {
		t.Fatalf("AddItem on 200: %v", err)
	}
	if items != nil {
		t.Fatalf("items on 200 = %+v; want nil", items)
	}
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	c, _ := newTestClient(t, nil)
	if _, err := c.AddItem(context.Background(), "cart-7", "p1", 0); err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if _, err := c.AddItem(context.Background(), "cart-7", "p1", -3); err == nil {
		t.Fatal("expected error for negative quantity")
	}
}

func TestItems_CarriesFormattedPricesVerbatim(t *testing.T) {
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"/v2/carts/cart-7/items": jsonResponse(cartItemsBody),
	})

	items, err := c.Items(context.Background(), "cart-7")
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items; want 1", len(items))
	}
	it := items[0]
	if it.Name != "Salmon" || it.Quantity != 2 || it.UnitPrice != "$10.00" || it.Subtotal != "$20.00" {
		t.Fatalf("item = %+v", it)
	}
}

func TestTotal_ReadsFormattedGrandTotal(t *testing.T) {
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"/v2/carts/cart-7": jsonResponse(`{"data":{"meta":{"display_price":{"with_tax":{"formatted":"$20.00"}}}}}`),
	})

	total, err := c.Total(context.Background(), "cart-7")
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if total != "$20.00" {
		t.Fatalf("total = %q", total)
	}
}

func TestRemoveItem_PropagatesBackendFailure(t *testing.T) {
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"/v2/carts/cart-7/items/li-1": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("method = %s; want DELETE", r.Method)
			}
			w.WriteHeader(http.StatusNoContent)
		},
		"/v2/carts/cart-7/items/ghost": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"errors":[{"title":"item not in cart"}]}`))
		},
	})

	if err := c.RemoveItem(context.Background(), "cart-7", "li-1"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}

	err := c.RemoveItem(context.Background(), "cart-7", "ghost")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("RemoveItem(ghost) = %v; want 404 APIError", err)
	}
}
