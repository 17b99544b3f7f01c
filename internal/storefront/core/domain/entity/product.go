package entity

// Hashtag is a display tag attached to a product.
type Hashtag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog entry. Read-only from this service's perspective;
// the commerce backend owns it.
type Product struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Price    int64     `json:"price"`
	Capacity int64     `json:"capacity"`
	Rating   float64   `json:"rating"`
	Hashtags []Hashtag `json:"hashtags,omitempty"`
}
