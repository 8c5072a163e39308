package form

// Wishlist fields.
const (
	WishlistID          = "wishlist_id"
	WishlistName        = "wishlist_name"
	WishlistNote        = "wishlist_note"
	WishlistFavorite    = "wishlist_favorite"
	WishlistUpdatedTime = "wishlist_updated_time"
)

// Item fields.
const (
	ItemID          = "item_id"
	ItemWishlistID  = "item_wishlist_id"
	ItemName        = "item_name"
	ItemCategory    = "item_category"
	ItemQuantity    = "item_quantity"
	ItemPrice       = "item_price"
	ItemNote        = "item_note"
	ItemFavorite    = "item_favorite"
	ItemUpdatedTime = "item_updated_time"
)

// WishlistFields lists every wishlist field in display order.
var WishlistFields = []string{
	WishlistID, WishlistName, WishlistNote, WishlistFavorite, WishlistUpdatedTime,
}

// ItemFields lists every item field in display order.
var ItemFields = []string{
	ItemID, ItemWishlistID, ItemName, ItemCategory, ItemQuantity,
	ItemPrice, ItemNote, ItemFavorite, ItemUpdatedTime,
}

// AllFields is the full form in display order.
var AllFields = append(append([]string{}, WishlistFields...), ItemFields...)

// BoolFields are rendered as checkboxes.
var BoolFields = map[string]bool{
	WishlistFavorite: true,
	ItemFavorite:     true,
}

// IsKnown reports whether name is one of the form's fields.
func IsKnown(name string) bool {
	for _, f := range AllFields {
		if f == name {
			return true
		}
	}
	return false
}

// Labels are the human-readable field captions.
var Labels = map[string]string{
	WishlistID:          "ID",
	WishlistName:        "Name",
	WishlistNote:        "Note",
	WishlistFavorite:    "Favorite",
	WishlistUpdatedTime: "Updated Time",
	ItemID:              "Item ID",
	ItemWishlistID:      "Wishlist ID",
	ItemName:            "Name",
	ItemCategory:        "Category",
	ItemQuantity:        "Quantity",
	ItemPrice:           "Price",
	ItemNote:            "Note",
	ItemFavorite:        "Favorite",
	ItemUpdatedTime:     "Updated Time",
}
