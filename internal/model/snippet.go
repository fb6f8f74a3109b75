// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Snippet represents a persisted code snippet.
//
// Note the ABSENCE of `json:"..."` struct tags here. The wire representation
// of a snippet (field names, field order, which fields appear at all) is owned
// by the serializer package, not the model. The model is free to carry
// storage-only fields like CreatedAt/UpdatedAt without them leaking into API
// responses.
//
// ID is assigned by the storage layer on insert (SQLite AUTOINCREMENT) and is
// never accepted from, or mutated by, a client.
type Snippet struct {
	ID        int64
	Title     string // optional, may be blank
	Code      string // required, logically multi-line
	Linenos   bool   // render with line numbers
	Language  string // one of the recognized language identifiers
	Style     string // one of the recognized display styles
	CreatedAt time.Time
	UpdatedAt time.Time
}
