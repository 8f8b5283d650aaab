package bot

import (
	"context"
	"fmt"
	"strings"
)

// Fixed callback payloads for navigation buttons. Product and line-item ids
// are matched by exclusion: any payload that is none of these (and carries
// no quantity delimiter) is treated as an id.
const (
	callbackCart = "cart"
	callbackPay  = "pay"
	callbackMenu = "menu"
	callbackBack = "back"
)

const (
	menuText        = "Welcome to the store! Pick a product:"
	emailPromptText = "Send us your email and we will get in touch."
)

// quantityChoices are the order quantities offered on a product view.
var quantityChoices = [...]int{1, 5, 10}

// handleStart lists the catalog and renders the product menu. It serves both
// the /start command and the "back to menu" transitions.
func (m *Machine) handleStart(ctx context.Context, ev Event) (State, error) {
	products, err := m.catalog.Products(ctx)
	if err != nil {
		return "", err
	}

	keyboard := make([][]Button, 0, len(products)+1)
	for _, p := range products {
		keyboard = append(keyboard, []Button{{Label: p.Name, Data: p.ID}})
	}
	keyboard = append(keyboard, []Button{{Label: "Cart", Data: callbackCart}})

	if err := m.send.SendText(ctx, ev.Session, menuText, keyboard); err != nil {
		return "", err
	}
	return StateMenu, nil
}

// handleMenu reacts to a menu button: the cart button opens the cart view,
// anything else is a product id whose description (and image, when present)
// is rendered with quantity choices.
func (m *Machine) handleMenu(ctx context.Context, ev Event) (State, error) {
	if ev.Value == callbackCart {
		return m.showCart(ctx, ev.Session)
	}

	detail, err := m.catalog.Product(ctx, ev.Value)
	if err != nil {
		return "", err
	}

	if detail.ImageID == "" {
		keyboard := [][]Button{{{Label: "Back", Data: callbackBack}}}
		if err := m.send.SendText(ctx, ev.Session, detail.Description, keyboard); err != nil {
			return "", err
		}
		return StateProduct, nil
	}

	url, err := m.catalog.ImageURL(ctx, detail.ImageID)
	if err != nil {
		return "", err
	}
	row := make([]Button, 0, len(quantityChoices))
	for _, qty := range quantityChoices {
		row = append(row, Button{Label: quantityLabel(qty), Data: quantityPayload(detail.ID, qty)})
	}
	keyboard := [][]Button{row, {{Label: "Back", Data: callbackBack}}}
	if err := m.send.SendPhoto(ctx, ev.Session, url, detail.Description, keyboard); err != nil {
		return "", err
	}
	return StateProduct, nil
}

// handleProduct reacts on the product view: "back" re-renders the menu, a
// quantity payload adds the product to the session's cart and stays put.
func (m *Machine) handleProduct(ctx context.Context, ev Event) (State, error) {
	switch {
	case ev.Value == callbackBack:
		return m.handleStart(ctx, ev)
	case strings.Contains(ev.Value, countDelim):
		productID, qty, err := parseQuantityPayload(ev.Value)
		if err != nil {
			return "", err
		}
		cartID, err := m.sessions.CartID(ctx, ev.Session)
		if err != nil {
			return "", err
		}
		if _, err := m.carts.AddItem(ctx, cartID, productID, qty); err != nil {
			return "", err
		}
	}
	return StateProduct, nil
}

// handleCart reacts on the cart view: "menu" goes back, "pay" asks for an
// email, any other payload is a line-item id to remove before re-rendering.
func (m *Machine) handleCart(ctx context.Context, ev Event) (State, error) {
	switch ev.Value {
	case callbackMenu:
		return m.handleStart(ctx, ev)
	case callbackPay:
		if err := m.send.SendText(ctx, ev.Session, emailPromptText, nil); err != nil {
			return "", err
		}
		return StateAwaitEmail, nil
	default:
		cartID, err := m.sessions.CartID(ctx, ev.Session)
		if err != nil {
			return "", err
		}
		if err := m.carts.RemoveItem(ctx, cartID, ev.Value); err != nil {
			return "", err
		}
		return m.showCart(ctx, ev.Session)
	}
}

// handleEmail treats any text as an email address, registers the customer,
// and acknowledges. The state is sticky: each further message is one more
// submission.
func (m *Machine) handleEmail(ctx context.Context, ev Event) (State, error) {
	email := strings.TrimSpace(ev.Value)
	name := ev.UserName
	if name == "" {
		name = ev.Session
	}
	if _, err := m.customers.CreateCustomer(ctx, name, email); err != nil {
		return "", err
	}
	text := fmt.Sprintf("We will contact you at %s.", email)
	if err := m.send.SendText(ctx, ev.Session, text, nil); err != nil {
		return "", err
	}
	return StateAwaitEmail, nil
}

// showCart renders the session's cart: one block per line item with the
// backend-formatted prices, the grand total, and pay/remove/menu buttons.
func (m *Machine) showCart(ctx context.Context, session string) (State, error) {
	cartID, err := m.sessions.CartID(ctx, session)
	if err != nil {
		return "", err
	}
	items, err := m.carts.Items(ctx, cartID)
	if err != nil {
		return "", err
	}
	total, err := m.carts.Total(ctx, cartID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "Item: %s\nPrice: %s\nQuantity: %d\nSubtotal: %s\n\n",
			item.Name, item.UnitPrice, item.Quantity, item.Subtotal)
	}
	fmt.Fprintf(&b, "Total: %s", total)

	keyboard := [][]Button{{{Label: "Pay", Data: callbackPay}}}
	for _, item := range items {
		keyboard = append(keyboard, []Button{{Label: "Remove " + item.Name, Data: item.ID}})
	}
	keyboard = append(keyboard, []Button{{Label: "Menu", Data: callbackMenu}})

	if err := m.send.SendText(ctx, session, b.String(), keyboard); err != nil {
		return "", err
	}
	return StateCart, nil
}

// quantityLabel renders a quantity button caption.
func quantityLabel(qty int) string {
	if qty == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", qty)
}
