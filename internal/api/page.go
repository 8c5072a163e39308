package api

import (
	"html/template"

	"github.com/Kerhoff/WishDesk/internal/form"
	"github.com/Kerhoff/WishDesk/internal/mapper"
	"github.com/Kerhoff/WishDesk/internal/render"
	"github.com/Kerhoff/WishDesk/internal/service"
)

type actionButton struct {
	Name  service.Action
	Label string
}

var wishlistButtons = []actionButton{
	{service.ActionCreateWishlist, "Create"},
	{service.ActionRetrieveWishlist, "Retrieve"},
	{service.ActionUpdateWishlist, "Update"},
	{service.ActionDeleteWishlist, "Delete"},
	{service.ActionSearchWishlists, "Search"},
	{service.ActionFavoriteWishlist, "Mark Favorite"},
	{service.ActionUnfavoriteWishlist, "Unmark Favorite"},
}

var itemButtons = []actionButton{
	{service.ActionCreateItem, "Create"},
	{service.ActionCreateItemByName, "Create in Named Wishlist"},
	{service.ActionRetrieveItem, "Retrieve"},
	{service.ActionUpdateItem, "Update"},
	{service.ActionDeleteItem, "Delete"},
	{service.ActionListItems, "List in Wishlist"},
	{service.ActionQueryItems, "Query All Wishlists"},
	{service.ActionFavoriteItem, "Mark Favorite"},
	{service.ActionUnfavoriteItem, "Unmark Favorite"},
}

type pageField struct {
	Name     string
	Label    string
	Value    string
	Checkbox bool
	Checked  bool
}

type pageGroup struct {
	Title   string
	Fields  []pageField
	Actions []actionButton
}

type page struct {
	Flash  template.HTML
	Groups []pageGroup
	Table  template.HTML
}

func pageData(state form.State, flash string, table *render.Table) (page, error) {
	p := page{
		Flash: template.HTML(form.Sanitize(flash)),
		Groups: []pageGroup{
			{Title: "Wishlist", Fields: fieldsFor(state, form.WishlistFields), Actions: wishlistButtons},
			{Title: "Item", Fields: fieldsFor(state, form.ItemFields), Actions: itemButtons},
		},
	}

	if table == nil {
		empty, _, _ := render.RenderList(mapper.KindWishlist, nil)
		table = &empty
	}
	html, err := table.HTML()
	if err != nil {
		return page{}, err
	}
	p.Table = html
	return p, nil
}

func fieldsFor(state form.State, names []string) []pageField {
	out := make([]pageField, 0, len(names))
	for _, name := range names {
		f := pageField{Name: name, Label: form.Labels[name], Value: state.Read(name)}
		if form.BoolFields[name] {
			f.Checkbox = true
			f.Checked = state.ReadBool(name) == form.True
		}
		out = append(out, f)
	}
	return out
}
