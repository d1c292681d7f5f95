package schema

// PosterArtistTable represents the 'catalog.posterartist' junction table
type PosterArtistTable struct {
	Table    string
	PosterID string
	ArtistID string
}

// PosterArtist is the schema definition for catalog.posterartist
var PosterArtist = PosterArtistTable{
	Table:    "catalog.posterartist",
	PosterID: "posterid",
	ArtistID: "artistid",
}

// PosterEventTable represents the 'catalog.posterevent' junction table
type PosterEventTable struct {
	Table    string
	PosterID string
	EventID  string
}

// PosterEvent is the schema definition for catalog.posterevent
var PosterEvent = PosterEventTable{
	Table:    "catalog.posterevent",
	PosterID: "posterid",
	EventID:  "eventid",
}

// EventArtistTable represents the 'catalog.eventartist' junction table
type EventArtistTable struct {
	Table    string
	EventID  string
	ArtistID string
}

// EventArtist is the schema definition for catalog.eventartist
var EventArtist = EventArtistTable{
	Table:    "catalog.eventartist",
	EventID:  "eventid",
	ArtistID: "artistid",
}
