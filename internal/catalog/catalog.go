// Package catalog builds typed entries from parsed records and serves the
// browsing views: tag filtering and sub-string search.
package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/cases"

	"nandoku-quiz-service/internal/annotation"
	"nandoku-quiz-service/internal/domain"
	"nandoku-quiz-service/internal/record"
)

// Column names of the tabular source.
const (
	ColumnReading    = "reading"
	ColumnMeaning    = "meaning"
	ColumnTags       = "additional_info"
	ColumnComponents = "components"
)

const (
	// TagAll disables tag filtering.
	TagAll = "all"
	// TagNoGenre selects entries whose tags name none of the known genres.
	TagNoGenre = "(no genre)"
)

// genres is the fixed list of known genre labels.
var genres = []string{
	"動物",
	"植物・藻類",
	"魚介類",
	"鳥類",
	"虫",
	"食べ物",
	"地名",
	"人名",
	"生活・道具",
	"自然・気象",
	"体・病気",
	"歴史・文化",
}

// Genres returns the known genre labels in display order.
func Genres() []string {
	return append([]string(nil), genres...)
}

// Catalog is the immutable entry list of one level.
type Catalog struct {
	level    domain.Level
	location string
	entries  []domain.Entry
	skipped  int
}

// New maps table rows onto entries. Rows without an identifying value are
// skipped. Image references are resolved against location.
func New(level domain.Level, location string, table *record.Table) *Catalog {
	c := &Catalog{
		level:    level,
		location: location,
		entries:  make([]domain.Entry, 0, len(table.Rows)),
	}
	for i, row := range table.Rows {
		id := strings.TrimSpace(row.ID())
		if id == "" {
			c.skipped++
			continue
		}
		c.entries = append(c.entries, domain.Entry{
			Key:            fmt.Sprintf("%s:%d", level.ID, i),
			ID:             id,
			Reading:        strings.TrimSpace(row.Field(ColumnReading)),
			Meaning:        strings.TrimSpace(row.Field(ColumnMeaning)),
			ImageReference: ResolveImage(location, id),
			Tags:           strings.TrimSpace(row.Field(ColumnTags)),
			Components:     strings.Fields(row.Field(ColumnComponents)),
		})
	}
	return c
}

// Parse reads a tabular document and builds its catalog.
func Parse(level domain.Level, location, doc string) (*Catalog, error) {
	table, err := record.ParseString(doc)
	if err != nil {
		return nil, err
	}
	return New(level, location, table), nil
}

// Level returns the level the catalog was built for.
func (c *Catalog) Level() domain.Level {
	return c.level
}

// Location returns the level-scoped base location.
func (c *Catalog) Location() string {
	return c.location
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Skipped returns the number of rows dropped for lacking an identifier.
func (c *Catalog) Skipped() int {
	return c.skipped
}

// Entries returns every entry in source order.
func (c *Catalog) Entries() []domain.Entry {
	return append([]domain.Entry(nil), c.entries...)
}

// Entry looks an entry up by its position key.
func (c *Catalog) Entry(key string) (domain.Entry, bool) {
	for _, e := range c.entries {
		if e.Key == key {
			return e, true
		}
	}
	return domain.Entry{}, false
}

// FilterByTag returns the entries matching tag. Tags are case-sensitive.
func (c *Catalog) FilterByTag(tag string) []domain.Entry {
	switch tag {
	case TagAll:
		return c.Entries()
	case TagNoGenre:
		return filter(c.entries, func(e domain.Entry) bool {
			for _, g := range genres {
				if strings.Contains(e.Tags, g) {
					return false
				}
			}
			return true
		})
	}
	return filter(c.entries, func(e domain.Entry) bool {
		return strings.Contains(e.Tags, tag)
	})
}

// View filters by tag, then searches the result.
func (c *Catalog) View(tag string, mode domain.SearchMode, query string) []domain.Entry {
	return Search(c.FilterByTag(tag), mode, query)
}

// Search keeps entries whose chosen projection contains query, ignoring case.
// An empty query or an unknown mode returns entries unchanged.
func Search(entries []domain.Entry, mode domain.SearchMode, query string) []domain.Entry {
	if query == "" {
		return entries
	}
	fold := cases.Fold()
	q := fold.String(query)

	switch mode {
	case domain.SearchReading:
		return filter(entries, func(e domain.Entry) bool {
			return strings.Contains(fold.String(annotation.Emphasis(e.Reading)), q)
		})
	case domain.SearchComponent:
		return filter(entries, func(e domain.Entry) bool {
			for _, token := range e.Components {
				if strings.Contains(fold.String(token), q) {
					return true
				}
			}
			return false
		})
	}
	return entries
}

// ResolveImage joins a relative identifier onto location. Identifiers with a
// URL scheme or a leading slash are already absolute and used verbatim.
func ResolveImage(location, id string) string {
	if isAbsolute(id) || location == "" {
		return id
	}
	if !strings.HasSuffix(location, "/") {
		location += "/"
	}
	return location + id
}

func isAbsolute(id string) bool {
	if strings.HasPrefix(id, "/") {
		return true
	}
	u, err := url.Parse(id)
	return err == nil && u.Scheme != ""
}

func filter(entries []domain.Entry, keep func(domain.Entry) bool) []domain.Entry {
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
