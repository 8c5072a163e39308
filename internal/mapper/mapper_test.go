package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/WishDesk/internal/form"
	"github.com/Kerhoff/WishDesk/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
}

func TestWishlistToFields(t *testing.T) {
	r, err := models.DecodeResource([]byte(`{"id":42,"name":"Birthday","note":"","is_favorite":false,"updated_time":"2024-01-01T00:00:00Z","items":[]}`))
	require.NoError(t, err)

	got := ToFields(KindWishlist, r)
	want := form.State{
		form.WishlistID:          "42",
		form.WishlistName:        "Birthday",
		form.WishlistNote:        "",
		form.WishlistFavorite:    "false",
		form.WishlistUpdatedTime: "2024-01-01",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("wishlist fields mismatch (-want +got):\n%s", diff)
	}
}

func TestItemToFieldsMissingOptionals(t *testing.T) {
	r, err := models.DecodeResource([]byte(`{"id":7,"name":"Lego","quantity":2,"wishlist_id":3,"is_favorite":true}`))
	require.NoError(t, err)

	got := ToFields(KindItem, r, WithWishlistID())
	want := form.State{
		form.ItemID:          "7",
		form.ItemWishlistID:  "3",
		form.ItemName:        "Lego",
		form.ItemCategory:    "",
		form.ItemQuantity:    "2",
		form.ItemPrice:       "",
		form.ItemNote:        "",
		form.ItemFavorite:    "true",
		form.ItemUpdatedTime: "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("item fields mismatch (-want +got):\n%s", diff)
	}
}

func TestItemToFieldsWithoutWishlistID(t *testing.T) {
	r := models.Resource{"id": "1", "wishlist_id": "9"}
	got := ToFields(KindItem, r)
	_, ok := got[form.ItemWishlistID]
	assert.False(t, ok)
}

func TestPriceKeepsServerFormatting(t *testing.T) {
	r, err := models.DecodeResource([]byte(`{"price":12.50}`))
	require.NoError(t, err)
	assert.Equal(t, "12.50", ToFields(KindItem, r).Read(form.ItemPrice))
}

func TestDateOnly(t *testing.T) {
	tests := map[string]string{
		"2024-03-01T10:00:00Z":          "2024-03-01",
		"2024-03-01":                    "2024-03-01",
		"Tue, 03 Dec 2024 15:18:50 GMT": "2024-12-03",
		"":                              "",
		"soon":                          "soon",
	}
	for in, want := range tests {
		assert.Equal(t, want, DateOnly(in), in)
	}
}

func TestWishlistPayload(t *testing.T) {
	s := form.State{
		form.WishlistName:        "Birthday",
		form.WishlistNote:        "",
		form.WishlistUpdatedTime: "2024-01-01",
		form.WishlistFavorite:    "",
	}
	body, err := json.Marshal(ToPayload(KindWishlist, s, fixedClock))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Birthday","note":"","updated_time":"2024-01-01","items":[],"is_favorite":false}`, string(body))
}

func TestItemPayloadDefaultsUpdatedTime(t *testing.T) {
	s := form.State{
		form.ItemName:     "Lego",
		form.ItemCategory: "toys",
		form.ItemQuantity: "2",
		form.ItemPrice:    "19.99",
		form.ItemFavorite: "on",
	}
	body, err := json.Marshal(ToPayload(KindItem, s, fixedClock))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Lego","category":"toys","quantity":"2","price":"19.99","note":"","updated_time":"2024-05-06","is_favorite":true}`, string(body))
}

func TestWishlistRoundTrip(t *testing.T) {
	cases := []form.State{
		{form.WishlistName: "Birthday", form.WishlistNote: "", form.WishlistFavorite: "false", form.WishlistUpdatedTime: "2024-01-01"},
		{form.WishlistName: "Xmas", form.WishlistNote: "for mum", form.WishlistFavorite: "true", form.WishlistUpdatedTime: "2023-12-24"},
	}
	for _, in := range cases {
		body, err := json.Marshal(ToPayload(KindWishlist, in, fixedClock))
		require.NoError(t, err)
		r, err := models.DecodeResource(body)
		require.NoError(t, err)

		out := ToFields(KindWishlist, r)
		for name, value := range in {
			assert.Equal(t, value, out.Read(name), name)
		}
	}
}

func TestItemRoundTrip(t *testing.T) {
	in := form.State{
		form.ItemName:        "Book",
		form.ItemCategory:    "reading",
		form.ItemQuantity:    "1",
		form.ItemPrice:       "9.5",
		form.ItemNote:        "paperback",
		form.ItemFavorite:    "true",
		form.ItemUpdatedTime: "2024-02-02",
	}
	body, err := json.Marshal(ToPayload(KindItem, in, fixedClock))
	require.NoError(t, err)
	r, err := models.DecodeResource(body)
	require.NoError(t, err)

	out := ToFields(KindItem, r)
	for name, value := range in {
		assert.Equal(t, value, out.Read(name), name)
	}
}

func TestFieldsExcludeIdentifiers(t *testing.T) {
	assert.NotContains(t, Fields(KindWishlist), form.WishlistID)
	assert.NotContains(t, Fields(KindItem), form.ItemID)
	assert.Contains(t, Fields(KindItem), form.ItemPrice)
	assert.Equal(t, form.ItemID, IDField(KindItem))
	assert.Equal(t, "wishlist", KindWishlist.String())
}
