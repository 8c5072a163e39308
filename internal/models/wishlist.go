package models

// WishlistPayload is the JSON body sent on wishlist create and update.
// The server assigns the id, so it is never part of the payload.
type WishlistPayload struct {
	Name        string        `json:"name"`
	Note        string        `json:"note"`
	UpdatedTime string        `json:"updated_time"`
	Items       []ItemPayload `json:"items"`
	IsFavorite  bool          `json:"is_favorite"`
}

// ItemPayload is the JSON body sent on item create and update. Quantity and
// price travel as strings exactly as they were typed into the form.
type ItemPayload struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	Note        string `json:"note"`
	UpdatedTime string `json:"updated_time"`
	IsFavorite  bool   `json:"is_favorite"`
}

// JSON keys shared by the wishlist and item representations returned by the
// REST API.
const (
	KeyID          = "id"
	KeyWishlistID  = "wishlist_id"
	KeyName        = "name"
	KeyNote        = "note"
	KeyCategory    = "category"
	KeyQuantity    = "quantity"
	KeyPrice       = "price"
	KeyIsFavorite  = "is_favorite"
	KeyUpdatedTime = "updated_time"
	KeyItems       = "items"
	KeyMessage     = "message"
)
