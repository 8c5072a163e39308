package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Kerhoff/WishDesk/internal/form"
	"github.com/Kerhoff/WishDesk/internal/mapper"
	"github.com/Kerhoff/WishDesk/internal/models"
	"github.com/Kerhoff/WishDesk/internal/query"
	"github.com/Kerhoff/WishDesk/internal/render"
)

// Action names one operator command.
type Action string

const (
	ActionCreateWishlist     Action = "create-wishlist"
	ActionRetrieveWishlist   Action = "retrieve-wishlist"
	ActionUpdateWishlist     Action = "update-wishlist"
	ActionDeleteWishlist     Action = "delete-wishlist"
	ActionSearchWishlists    Action = "search-wishlists"
	ActionFavoriteWishlist   Action = "favorite-wishlist"
	ActionUnfavoriteWishlist Action = "unfavorite-wishlist"

	ActionCreateItem       Action = "create-item"
	ActionCreateItemByName Action = "create-item-by-name"
	ActionRetrieveItem     Action = "retrieve-item"
	ActionUpdateItem       Action = "update-item"
	ActionDeleteItem       Action = "delete-item"
	ActionListItems        Action = "list-items"
	ActionQueryItems       Action = "query-items"
	ActionFavoriteItem     Action = "favorite-item"
	ActionUnfavoriteItem   Action = "unfavorite-item"

	ActionClear Action = "clear"
)

// Flash messages.
const (
	MsgSuccess          = "Success"
	MsgWishlistDeleted  = "Wishlist has been Deleted!"
	MsgItemDeleted      = "Item has been Deleted!"
	MsgWishlistNotFound = "Wishlist not found"

	MsgWishlistIDRequired   = "Wishlist ID is required"
	MsgItemIDRequired       = "Item ID is required"
	MsgWishlistNameRequired = "Wishlist name is required"
)

type result struct {
	fields form.State
	clear  []string
	table  *render.Table
	flash  string
}

type handler struct {
	kind   mapper.Kind
	policy messagePolicy
	run    func(ctx context.Context, in form.State) (result, error)
}

func (s *Service) handlers() map[Action]handler {
	return map[Action]handler{
		ActionCreateWishlist:     {kind: mapper.KindWishlist, run: s.createWishlist},
		ActionRetrieveWishlist:   {kind: mapper.KindWishlist, run: s.retrieveWishlist},
		ActionUpdateWishlist:     {kind: mapper.KindWishlist, run: s.updateWishlist},
		ActionDeleteWishlist:     {kind: mapper.KindWishlist, policy: policyGeneric, run: s.deleteWishlist},
		ActionSearchWishlists:    {kind: mapper.KindWishlist, run: s.searchWishlists},
		ActionFavoriteWishlist:   {kind: mapper.KindWishlist, run: s.markWishlist(http.MethodPut)},
		ActionUnfavoriteWishlist: {kind: mapper.KindWishlist, run: s.markWishlist(http.MethodDelete)},

		ActionCreateItem:       {kind: mapper.KindItem, run: s.createItem},
		ActionCreateItemByName: {kind: mapper.KindItem, run: s.createItemByName},
		ActionRetrieveItem:     {kind: mapper.KindItem, run: s.retrieveItem},
		ActionUpdateItem:       {kind: mapper.KindItem, run: s.updateItem},
		ActionDeleteItem:       {kind: mapper.KindItem, policy: policyGeneric, run: s.deleteItem},
		ActionListItems:        {kind: mapper.KindItem, run: s.listItems},
		ActionQueryItems:       {kind: mapper.KindItem, policy: policyRaw, run: s.queryItems},
		ActionFavoriteItem:     {kind: mapper.KindItem, run: s.markItem(http.MethodPut)},
		ActionUnfavoriteItem:   {kind: mapper.KindItem, run: s.markItem(http.MethodDelete)},

		ActionClear: {kind: mapper.KindWishlist, run: clearForm},
	}
}

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

func wishlistPath(id string) string {
	return "/wishlists/" + url.PathEscape(strings.TrimSpace(id))
}

func itemsPath(wishlistID string) string {
	return wishlistPath(wishlistID) + "/items"
}

func itemPath(wishlistID, itemID string) string {
	return itemsPath(wishlistID) + "/" + url.PathEscape(strings.TrimSpace(itemID))
}

// ---------------------------------------------------------------------------
// Wishlists
// ---------------------------------------------------------------------------

func (s *Service) createWishlist(ctx context.Context, in form.State) (result, error) {
	body := mapper.ToPayload(mapper.KindWishlist, in, s.clock)
	return s.wishlistRequest(ctx, http.MethodPost, "/wishlists", body)
}

func (s *Service) retrieveWishlist(ctx context.Context, in form.State) (result, error) {
	id := in.Read(form.WishlistID)
	if err := required(form.WishlistID, MsgWishlistIDRequired, id); err != nil {
		return result{}, err
	}
	return s.wishlistRequest(ctx, http.MethodGet, wishlistPath(id), nil)
}

func (s *Service) updateWishlist(ctx context.Context, in form.State) (result, error) {
	id := in.Read(form.WishlistID)
	if err := required(form.WishlistID, MsgWishlistIDRequired, id); err != nil {
		return result{}, err
	}
	body := mapper.ToPayload(mapper.KindWishlist, in, s.clock)
	return s.wishlistRequest(ctx, http.MethodPut, wishlistPath(id), body)
}

func (s *Service) deleteWishlist(ctx context.Context, in form.State) (result, error) {
	id := in.Read(form.WishlistID)
	if err := required(form.WishlistID, MsgWishlistIDRequired, id); err != nil {
		return result{}, err
	}
	if _, err := s.api.Send(ctx, http.MethodDelete, wishlistPath(id), nil); err != nil {
		return result{}, err
	}
	return result{clear: form.WishlistFields, flash: MsgWishlistDeleted}, nil
}

func (s *Service) searchWishlists(ctx context.Context, in form.State) (result, error) {
	qs := query.Build(query.ScopeWishlistSearch, query.Filters{
		"name": in.Read(form.WishlistName),
	})
	return s.listRequest(ctx, mapper.KindWishlist, query.AppendQuery("/wishlists", qs), "")
}

func (s *Service) markWishlist(method string) func(context.Context, form.State) (result, error) {
	return func(ctx context.Context, in form.State) (result, error) {
		id := in.Read(form.WishlistID)
		if err := required(form.WishlistID, MsgWishlistIDRequired, id); err != nil {
			return result{}, err
		}
		return s.wishlistRequest(ctx, method, wishlistPath(id)+"/favorite", nil)
	}
}

func (s *Service) wishlistRequest(ctx context.Context, method, path string, body any) (result, error) {
	resp, err := s.api.Send(ctx, method, path, body)
	if err != nil {
		return result{}, err
	}
	r, err := resp.Resource()
	if err != nil {
		return result{}, err
	}
	return result{fields: mapper.ToFields(mapper.KindWishlist, r), flash: MsgSuccess}, nil
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

func requireWishlistID(in form.State) (string, error) {
	wid := in.Read(form.ItemWishlistID)
	if err := required(form.ItemWishlistID, MsgWishlistIDRequired, wid); err != nil {
		return "", err
	}
	return wid, nil
}

func requireItemIDs(in form.State) (wid, id string, err error) {
	if wid, err = requireWishlistID(in); err != nil {
		return "", "", err
	}
	id = in.Read(form.ItemID)
	if err = required(form.ItemID, MsgItemIDRequired, id); err != nil {
		return "", "", err
	}
	return wid, id, nil
}

func (s *Service) createItem(ctx context.Context, in form.State) (result, error) {
	wid, err := requireWishlistID(in)
	if err != nil {
		return result{}, err
	}
	body := mapper.ToPayload(mapper.KindItem, in, s.clock)
	return s.itemRequest(ctx, http.MethodPost, itemsPath(wid), wid, body)
}

// createItemByName resolves the owning wishlist by name first and only then
// creates the item in the first match.
func (s *Service) createItemByName(ctx context.Context, in form.State) (result, error) {
	name := in.Read(form.WishlistName)
	if err := required(form.WishlistName, MsgWishlistNameRequired, name); err != nil {
		return result{}, err
	}

	qs := query.Build(query.ScopeWishlistSearch, query.Filters{"name": name})
	resp, err := s.api.Send(ctx, http.MethodGet, query.AppendQuery("/wishlists", qs), nil)
	if err != nil {
		return result{}, err
	}
	matches, err := resp.Resources()
	if err != nil {
		return result{}, err
	}
	if len(matches) == 0 {
		return result{}, &NotFoundError{Message: MsgWishlistNotFound}
	}
	wid := matches[0].String(models.KeyID)
	if wid == "" {
		return result{}, &NotFoundError{Message: MsgWishlistNotFound}
	}

	body := mapper.ToPayload(mapper.KindItem, in, s.clock)
	return s.itemRequest(ctx, http.MethodPost, itemsPath(wid), wid, body)
}

func (s *Service) retrieveItem(ctx context.Context, in form.State) (result, error) {
	wid, id, err := requireItemIDs(in)
	if err != nil {
		return result{}, err
	}
	return s.itemRequest(ctx, http.MethodGet, itemPath(wid, id), wid, nil)
}

func (s *Service) updateItem(ctx context.Context, in form.State) (result, error) {
	wid, id, err := requireItemIDs(in)
	if err != nil {
		return result{}, err
	}
	body := mapper.ToPayload(mapper.KindItem, in, s.clock)
	return s.itemRequest(ctx, http.MethodPut, itemPath(wid, id), wid, body)
}

func (s *Service) deleteItem(ctx context.Context, in form.State) (result, error) {
	wid, id, err := requireItemIDs(in)
	if err != nil {
		return result{}, err
	}
	if _, err := s.api.Send(ctx, http.MethodDelete, itemPath(wid, id), nil); err != nil {
		return result{}, err
	}
	return result{
		clear: append([]string{form.ItemID}, mapper.Fields(mapper.KindItem)...),
		flash: MsgItemDeleted,
	}, nil
}

func (s *Service) listItems(ctx context.Context, in form.State) (result, error) {
	wid, err := requireWishlistID(in)
	if err != nil {
		return result{}, err
	}
	qs := query.Build(query.ScopeItemList, query.Filters{
		"name":     in.Read(form.ItemName),
		"category": in.Read(form.ItemCategory),
		"price":    in.Read(form.ItemPrice),
	})
	return s.listRequest(ctx, mapper.KindItem, query.AppendQuery(itemsPath(wid), qs), wid)
}

// queryItems searches items across every wishlist. An unchecked favorite box
// means "any", not "only non-favorites".
func (s *Service) queryItems(ctx context.Context, in form.State) (result, error) {
	filters := query.Filters{
		"name":         in.Read(form.ItemName),
		"category":     in.Read(form.ItemCategory),
		"price":        in.Read(form.ItemPrice),
		"quantity":     in.Read(form.ItemQuantity),
		"updated_time": in.Read(form.ItemUpdatedTime),
	}
	if in.ReadBool(form.ItemFavorite) == form.True {
		filters["is_favorite"] = form.True
	}
	qs := query.Build(query.ScopeItemQuery, filters)
	return s.listRequest(ctx, mapper.KindItem, query.AppendQuery("/items", qs), "")
}

func (s *Service) markItem(method string) func(context.Context, form.State) (result, error) {
	return func(ctx context.Context, in form.State) (result, error) {
		wid, id, err := requireItemIDs(in)
		if err != nil {
			return result{}, err
		}
		return s.itemRequest(ctx, method, itemPath(wid, id)+"/favorite", wid, nil)
	}
}

func (s *Service) itemRequest(ctx context.Context, method, path, wid string, body any) (result, error) {
	resp, err := s.api.Send(ctx, method, path, body)
	if err != nil {
		return result{}, err
	}
	r, err := resp.Resource()
	if err != nil {
		return result{}, err
	}
	fields := mapper.ToFields(mapper.KindItem, r, mapper.WithWishlistID())
	if fields.Read(form.ItemWishlistID) == "" {
		fields.Write(form.ItemWishlistID, wid)
	}
	return result{fields: fields, flash: MsgSuccess}, nil
}

// ---------------------------------------------------------------------------
// Shared
// ---------------------------------------------------------------------------

// listRequest fetches a list and adopts its first row. wid is the wishlist the
// list is scoped to, if any; it stands in for a row without wishlist_id.
func (s *Service) listRequest(ctx context.Context, kind mapper.Kind, path, wid string) (result, error) {
	resp, err := s.api.Send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return result{}, err
	}
	list, err := resp.Resources()
	if err != nil {
		return result{}, fmt.Errorf("list %s: %w", kind, err)
	}
	table, first, ok := render.RenderList(kind, list)
	if ok && wid != "" && first.Read(form.ItemWishlistID) == "" {
		first.Write(form.ItemWishlistID, wid)
	}
	return result{fields: first, table: &table, flash: MsgSuccess}, nil
}

func clearForm(context.Context, form.State) (result, error) {
	return result{clear: form.AllFields}, nil
}
