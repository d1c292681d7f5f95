package schema

// CatalogArtistTable represents the 'catalog.artist' table
type CatalogArtistTable struct {
	Table string
	ID    string
	Name  string
}

// CatalogArtist is the schema definition for catalog.artist
var CatalogArtist = CatalogArtistTable{
	Table: "catalog.artist",
	ID:    "id",
	Name:  "name",
}

func (t CatalogArtistTable) Columns() []string {
	return []string{t.ID, t.Name}
}
