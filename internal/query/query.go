// Package query assembles REST query strings from sparse filter values.
package query

import "strings"

// Filters maps a filter name to its value. Empty values are ignored.
type Filters map[string]string

// Scope fixes which filters a request accepts and the order they appear in.
type Scope struct {
	Name string
	Keys []string
}

var (
	// ScopeWishlistSearch filters GET /wishlists.
	ScopeWishlistSearch = Scope{Name: "wishlist-search", Keys: []string{"name"}}

	// ScopeItemList filters GET /wishlists/{id}/items.
	ScopeItemList = Scope{Name: "item-list", Keys: []string{"name", "category", "price"}}

	// ScopeItemQuery filters the cross-wishlist GET /items.
	ScopeItemQuery = Scope{Name: "item-query", Keys: []string{
		"name", "category", "price", "quantity", "updated_time", "is_favorite",
	}}
)

// Build renders filters as key=value pairs joined by "&", in the scope's key
// order. Keys outside the scope and empty values are skipped; an empty result
// is "".
func Build(scope Scope, filters Filters) string {
	var b strings.Builder
	for _, key := range scope.Keys {
		value, ok := filters[key]
		if !ok || value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(Escape(value))
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

// Escape percent-encodes a query value byte by byte, leaving letters, digits
// and -_.!~*'() alone. Spaces become %20 rather than "+".
func Escape(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// AppendQuery joins path and qs with "?" when qs is non-empty.
func AppendQuery(path, qs string) string {
	if qs == "" {
		return path
	}
	return path + "?" + qs
}
