package domain

import "errors"

var ErrLineNotFound = errors.New("item not found in cart")
var ErrInvalidQuantity = errors.New("quantity must be at least 1")
var ErrMissingProductDetails = errors.New("product details are required")

// CartLine is one product's presence in a cart. Title, UnitPrice and Image are
// a display snapshot captured when the item was added; they are never
// re-fetched from the catalog.
type CartLine struct {
	ProductID string  `json:"productId" bson:"product_id"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Title     string  `json:"title" bson:"title"`
	UnitPrice float64 `json:"price" bson:"unit_price"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
}

// Validate checks the invariants required before a line may enter a cart.
func (l CartLine) Validate() error {
	if l.ProductID == "" || l.Title == "" || l.UnitPrice <= 0 {
		return ErrMissingProductDetails
	}
	if l.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}

// Cart is a set of lines unique by ProductID. Every line has Quantity >= 1;
// removal is structural deletion, never a zero-quantity line.
type Cart []CartLine

// Add merges a line into the cart: an existing line for the same product has
// its quantity incremented, otherwise the line is appended. The receiver is
// not modified.
func (c Cart) Add(line CartLine) Cart {
	out := c.clone()
	for i := range out {
		if out[i].ProductID == line.ProductID {
			out[i].Quantity += line.Quantity
			return out
		}
	}
	return append(out, line)
}

// SetQuantity replaces the quantity of an existing line.
func (c Cart) SetQuantity(productID string, quantity int) (Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	out := c.clone()
	for i := range out {
		if out[i].ProductID == productID {
			out[i].Quantity = quantity
			return out, nil
		}
	}
	return nil, ErrLineNotFound
}

// Remove deletes the line for productID. Removing an absent line returns the
// cart unchanged.
func (c Cart) Remove(productID string) Cart {
	out := make(Cart, 0, len(c))
	for _, l := range c {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	return out
}

// Find returns the line for productID, if present.
func (c Cart) Find(productID string) (CartLine, bool) {
	for _, l := range c {
		if l.ProductID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

// Total is the derived cart total: Σ(quantity × unit price).
func (c Cart) Total() float64 {
	var total float64
	for _, l := range c {
		total += float64(l.Quantity) * l.UnitPrice
	}
	return total
}

// ItemCount is the total number of units across all lines.
func (c Cart) ItemCount() int {
	var n int
	for _, l := range c {
		n += l.Quantity
	}
	return n
}

// Normalize drops lines that violate cart invariants (empty product id or
// quantity below 1) and collapses duplicate product ids by summing quantities.
// Used when adopting carts from untrusted storage.
func (c Cart) Normalize() Cart {
	out := make(Cart, 0, len(c))
	for _, l := range c {
		if l.ProductID == "" || l.Quantity < 1 {
			continue
		}
		out = out.Add(l)
	}
	return out
}

func (c Cart) clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}
