// Package render turns list responses into a results table and adopts the
// first row into the form.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Kerhoff/WishDesk/internal/form"
	"github.com/Kerhoff/WishDesk/internal/mapper"
	"github.com/Kerhoff/WishDesk/internal/models"
)

// Column is one fixed table column.
type Column struct {
	Title string
	Key   string
	Date  bool
}

var columns = map[mapper.Kind][]Column{
	mapper.KindWishlist: {
		{Title: "ID", Key: models.KeyID},
		{Title: "Name", Key: models.KeyName},
		{Title: "Note", Key: models.KeyNote},
		{Title: "Favorite", Key: models.KeyIsFavorite},
		{Title: "Updated Time", Key: models.KeyUpdatedTime, Date: true},
	},
	mapper.KindItem: {
		{Title: "Item ID", Key: models.KeyID},
		{Title: "Name", Key: models.KeyName},
		{Title: "Category", Key: models.KeyCategory},
		{Title: "Price", Key: models.KeyPrice},
		{Title: "Quantity", Key: models.KeyQuantity},
		{Title: "Wishlist ID", Key: models.KeyWishlistID},
	},
}

// Table is a rendered result set.
type Table struct {
	Kind    mapper.Kind `json:"-"`
	Columns []string    `json:"columns"`
	Rows    [][]string  `json:"rows"`
}

// Columns returns the column titles for kind.
func Columns(kind mapper.Kind) []string {
	cols := columns[kind]
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.Title
	}
	return titles
}

// RenderList builds one row per resource, in the order given. When the list
// is non-empty the first resource is also mapped into form fields and
// returned with ok set; an empty list yields a header-only table and no
// fields.
func RenderList(kind mapper.Kind, resources []models.Resource) (table Table, first form.State, ok bool) {
	table = Table{
		Kind:    kind,
		Columns: Columns(kind),
		Rows:    make([][]string, 0, len(resources)),
	}
	for _, r := range resources {
		table.Rows = append(table.Rows, row(kind, r))
	}
	if len(resources) == 0 {
		return table, nil, false
	}
	return table, mapper.ToFields(kind, resources[0], mapper.WithWishlistID()), true
}

func row(kind mapper.Kind, r models.Resource) []string {
	cols := columns[kind]
	cells := make([]string, len(cols))
	for i, c := range cols {
		switch {
		case c.Key == models.KeyIsFavorite:
			cells[i] = form.Canonical(r.Bool(c.Key))
		case c.Date:
			cells[i] = mapper.DateOnly(r.String(c.Key))
		default:
			cells[i] = r.String(c.Key)
		}
	}
	return cells
}

var tableTemplate = template.Must(template.New("table").Parse(
	`<table class="table table-striped" id="search_results">` +
		`<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>` +
		`<tbody>{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody>` +
		`</table>`))

// HTML renders the table as escaped markup.
func (t Table) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := tableTemplate.Execute(&buf, t); err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Text writes the table as aligned plain text.
func (t Table) Text(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for _, r := range t.Rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}
