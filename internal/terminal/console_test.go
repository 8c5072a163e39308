package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/WishDesk/internal/client"
	"github.com/Kerhoff/WishDesk/internal/form"
	"github.com/Kerhoff/WishDesk/internal/service"
	"github.com/Kerhoff/WishDesk/pkg/logger"
)

type stubDriver struct {
	inputs    []string
	confirm   []bool
	selectIdx []int
	inputPos  int
	confPos   int
	selPos    int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", ErrAborted
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confPos]
	s.confPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selPos]
	s.selPos++
	return val, nil
}

func newConsole(t *testing.T, driver PromptDriver, restAPI http.HandlerFunc) (*Console, *service.Session, *bytes.Buffer) {
	t.Helper()
	rest := httptest.NewServer(restAPI)
	t.Cleanup(rest.Close)

	svc := service.New(client.New(rest.URL, 5*time.Second, logger.Discard()), logger.Discard())
	session := service.NewSession("tty", nil)
	var out bytes.Buffer
	return New(svc, session, driver, &out, logger.Discard()), session, &out
}

func TestRunSetAndSearch(t *testing.T) {
	var gotQuery string
	driver := &stubDriver{inputs: []string{
		"set wishlist_name Summer Trip",
		"/search-wishlists",
		"quit",
	}}
	c, session, out := newConsole(t, driver, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `[{"id":7,"name":"Summer Trip","note":"beach","is_favorite":true,"updated_time":"Mon, 02 Jan 2006 15:04:05 GMT"}]`)
	})

	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, "name=Summer%20Trip", gotQuery)
	assert.Equal(t, "7", session.Form().Read(form.WishlistID))
	assert.Contains(t, out.String(), "Success")
	assert.Contains(t, out.String(), "2006-01-02")
	assert.Equal(t, 3, driver.inputPos)
}

func TestRunReportsUnknownCommandAndKeepsGoing(t *testing.T) {
	driver := &stubDriver{inputs: []string{"frobnicate", "", "set nope 1"}}
	c, _, out := newConsole(t, driver, func(w http.ResponseWriter, r *http.Request) {})

	require.NoError(t, c.Run(context.Background()))

	assert.Contains(t, out.String(), "Unknown command.")
	assert.Contains(t, out.String(), `Error: unknown field "nope"`)
}

func TestEditPromptsEveryItemField(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"", "3", "Lego", "toys", "2", "9.99", "", "2024-05-01"},
		confirm: []bool{true},
	}
	c, session, _ := newConsole(t, driver, func(w http.ResponseWriter, r *http.Request) {})

	require.NoError(t, c.Exec(context.Background(), "edit item"))

	state := session.Form()
	assert.Equal(t, "3", state.Read(form.ItemWishlistID))
	assert.Equal(t, "Lego", state.Read(form.ItemName))
	assert.Equal(t, form.True, state.Read(form.ItemFavorite))
	assert.Equal(t, "2024-05-01", state.Read(form.ItemUpdatedTime))
	assert.Equal(t, len(form.ItemFields)-1, driver.inputPos)
}

func TestActionValidationPrintsFlash(t *testing.T) {
	calls := 0
	c, _, out := newConsole(t, &stubDriver{}, func(w http.ResponseWriter, r *http.Request) { calls++ })

	require.NoError(t, c.Exec(context.Background(), "delete-item"))

	assert.Equal(t, 0, calls)
	assert.Contains(t, out.String(), service.MsgWishlistIDRequired)
}

func TestMenuRunsSelectedAction(t *testing.T) {
	driver := &stubDriver{}
	c, session, _ := newConsole(t, driver, func(w http.ResponseWriter, r *http.Request) {})
	session.Edit(form.State{form.WishlistName: "x"})

	for i, a := range c.svc.Actions() {
		if a == service.ActionClear {
			driver.selectIdx = []int{i}
		}
	}
	require.NoError(t, c.Exec(context.Background(), "menu"))

	assert.Equal(t, "", session.Form().Read(form.WishlistName))
	assert.Equal(t, 1, driver.selPos)
}

func TestQuitStopsHandling(t *testing.T) {
	c, _, _ := newConsole(t, &stubDriver{}, func(w http.ResponseWriter, r *http.Request) {})
	assert.ErrorIs(t, c.Exec(context.Background(), "exit"), ErrQuit)
}

func TestSetKeepsValueSpacing(t *testing.T) {
	c, session, _ := newConsole(t, &stubDriver{}, func(w http.ResponseWriter, r *http.Request) {})

	require.NoError(t, c.Exec(context.Background(), "set item_note  a  b "))
	assert.Equal(t, " a  b ", session.Form().Read(form.ItemNote))

	require.NoError(t, c.Exec(context.Background(), "  /set item_name Lego\tset"))
	assert.Equal(t, "Lego\tset", session.Form().Read(form.ItemName))

	require.NoError(t, c.Exec(context.Background(), "set item_category"))
	assert.Equal(t, "", session.Form().Read(form.ItemCategory))
}

func TestCutWord(t *testing.T) {
	tests := []struct {
		in, word, rest string
	}{
		{"", "", ""},
		{"set", "set", ""},
		{"  set x", "set", "x"},
		{"set  a  b ", "set", " a  b "},
	}
	for _, tt := range tests {
		word, rest := CutWord(tt.in)
		assert.Equal(t, tt.word, word, tt.in)
		assert.Equal(t, tt.rest, rest, tt.in)
	}
}
