// Package mapper translates between REST resources and form fields. One
// field table per resource kind drives both directions.
package mapper

import (
	"strings"
	"time"

	"github.com/Kerhoff/WishDesk/internal/form"
	"github.com/Kerhoff/WishDesk/internal/models"
)

// Kind identifies a resource type.
type Kind int

const (
	KindWishlist Kind = iota
	KindItem
)

func (k Kind) String() string {
	switch k {
	case KindWishlist:
		return "wishlist"
	case KindItem:
		return "item"
	default:
		return "unknown"
	}
}

type codec int

const (
	codecText codec = iota
	codecBool
	codecDate
)

type binding struct {
	field string
	key   string
	codec codec
}

var bindings = map[Kind][]binding{
	KindWishlist: {
		{form.WishlistID, models.KeyID, codecText},
		{form.WishlistName, models.KeyName, codecText},
		{form.WishlistNote, models.KeyNote, codecText},
		{form.WishlistFavorite, models.KeyIsFavorite, codecBool},
		{form.WishlistUpdatedTime, models.KeyUpdatedTime, codecDate},
	},
	KindItem: {
		{form.ItemID, models.KeyID, codecText},
		{form.ItemName, models.KeyName, codecText},
		{form.ItemCategory, models.KeyCategory, codecText},
		{form.ItemQuantity, models.KeyQuantity, codecText},
		{form.ItemPrice, models.KeyPrice, codecText},
		{form.ItemNote, models.KeyNote, codecText},
		{form.ItemFavorite, models.KeyIsFavorite, codecBool},
		{form.ItemUpdatedTime, models.KeyUpdatedTime, codecDate},
	},
}

// Fields returns the form fields owned by kind, excluding identifiers.
func Fields(kind Kind) []string {
	var out []string
	for _, b := range bindings[kind] {
		if b.key == models.KeyID {
			continue
		}
		out = append(out, b.field)
	}
	return out
}

// IDField returns the form field that holds kind's identifier.
func IDField(kind Kind) string {
	if kind == KindItem {
		return form.ItemID
	}
	return form.WishlistID
}

type fieldOptions struct {
	withWishlistID bool
}

// FieldOption adjusts ToFields.
type FieldOption func(*fieldOptions)

// WithWishlistID also maps an item's owning wishlist id into
// form.ItemWishlistID, for views that show items next to their wishlist.
func WithWishlistID() FieldOption {
	return func(o *fieldOptions) { o.withWishlistID = true }
}

// ToFields projects r onto kind's form fields. Every field of the kind is
// written; absent values become "".
func ToFields(kind Kind, r models.Resource, opts ...FieldOption) form.State {
	var o fieldOptions
	for _, opt := range opts {
		opt(&o)
	}

	state := form.New()
	for _, b := range bindings[kind] {
		switch b.codec {
		case codecBool:
			state.Write(b.field, r.Bool(b.key))
		case codecDate:
			state.Write(b.field, DateOnly(r.String(b.key)))
		default:
			state.Write(b.field, r.String(b.key))
		}
	}
	if kind == KindItem && o.withWishlistID {
		state.Write(form.ItemWishlistID, r.String(models.KeyWishlistID))
	}
	return state
}

// Clock supplies the date used when the form leaves updated_time blank.
type Clock func() time.Time

// ToPayload builds the JSON body for a create or update of kind from the
// form. now may be nil, in which case time.Now is used.
func ToPayload(kind Kind, s form.State, now Clock) any {
	if now == nil {
		now = time.Now
	}
	switch kind {
	case KindItem:
		return models.ItemPayload{
			Name:        s.Read(form.ItemName),
			Category:    s.Read(form.ItemCategory),
			Quantity:    s.Read(form.ItemQuantity),
			Price:       s.Read(form.ItemPrice),
			Note:        s.Read(form.ItemNote),
			UpdatedTime: updatedTime(s.Read(form.ItemUpdatedTime), now),
			IsFavorite:  s.ReadBool(form.ItemFavorite) == form.True,
		}
	default:
		return models.WishlistPayload{
			Name:        s.Read(form.WishlistName),
			Note:        s.Read(form.WishlistNote),
			UpdatedTime: updatedTime(s.Read(form.WishlistUpdatedTime), now),
			Items:       []models.ItemPayload{},
			IsFavorite:  s.ReadBool(form.WishlistFavorite) == form.True,
		}
	}
}

func updatedTime(v string, now Clock) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return now().UTC().Format(time.DateOnly)
}

var dateLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339,
	time.RFC3339Nano,
}

// DateOnly reduces a timestamp to its YYYY-MM-DD part. Values that already
// start with an ISO date keep that prefix; RFC 1123 values (the form the
// service serializes) are parsed. Anything else is returned unchanged.
func DateOnly(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 10 {
		if _, err := time.Parse(time.DateOnly, v[:10]); err == nil {
			return v[:10]
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return v
}
