package schema

// CatalogVenueTable represents the 'catalog.venue' table
type CatalogVenueTable struct {
	Table   string
	ID      string
	Name    string
	City    string
	State   string
	Country string
}

// CatalogVenue is the schema definition for catalog.venue
var CatalogVenue = CatalogVenueTable{
	Table:   "catalog.venue",
	ID:      "id",
	Name:    "name",
	City:    "city",
	State:   "state",
	Country: "country",
}

func (t CatalogVenueTable) Columns() []string {
	return []string{t.ID, t.Name, t.City, t.State, t.Country}
}
