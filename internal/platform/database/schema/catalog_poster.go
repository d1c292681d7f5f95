package schema

// CatalogPosterTable represents the 'catalog.poster' table
type CatalogPosterTable struct {
	Table       string
	ID          string
	Title       string
	Description string
	Status      string
	CreatedAt   string
	UpdatedAt   string
}

// CatalogPoster is the schema definition for catalog.poster
var CatalogPoster = CatalogPosterTable{
	Table:       "catalog.poster",
	ID:          "id",
	Title:       "title",
	Description: "description",
	Status:      "status",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t CatalogPosterTable) Columns() []string {
	return []string{t.ID, t.Title, t.Description, t.Status, t.CreatedAt, t.UpdatedAt}
}
