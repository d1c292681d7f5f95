package schema

// CatalogEventTable represents the 'catalog.event' table.
// Year, Month and Day are stored generated columns derived from EventDate.
type CatalogEventTable struct {
	Table     string
	ID        string
	Name      string
	EventDate string
	Year      string
	Month     string
	Day       string
	VenueID   string
}

// CatalogEvent is the schema definition for catalog.event
var CatalogEvent = CatalogEventTable{
	Table:     "catalog.event",
	ID:        "id",
	Name:      "name",
	EventDate: "eventdate",
	Year:      "year",
	Month:     "month",
	Day:       "day",
	VenueID:   "venueid",
}

func (t CatalogEventTable) Columns() []string {
	return []string{t.ID, t.Name, t.EventDate, t.Year, t.Month, t.Day, t.VenueID}
}
