package domain

// Product is the catalog view of an item as returned by the upstream product
// source. Only the fields the storefront renders are kept.
type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating,omitempty"`
	Stock       int      `json:"stock,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Images      []string `json:"images,omitempty"`
}
