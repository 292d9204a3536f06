// Document is the central entity of the domain.
package core

import (
	"fmt"
	"time"
)

// Document is a parsed schema body. The cache stores it opaquely; the only
// field it ever inspects is the self-declared identifier.
type Document map[string]any

// identifierFields are checked in order, mirroring the JSON Schema drafts.
var identifierFields = [...]string{"$id", "id"}

// Identifier returns the document's self-declared identifier, if present.
func (d Document) Identifier() (string, bool) {
	for _, field := range identifierFields {
		if v, ok := d[field].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// Row is one cached schema entry.
// Source is the primary identity: inserting a row silently replaces any prior
// row with the same Source. ID is a secondary, best-effort lookup field taken
// from the document at admission time; it is never validated for uniqueness.
type Row struct {
	Source  string
	ID      string
	ModTime time.Time // zero means "no staleness notion" (direct adds, HTTP without Last-Modified)
	Doc     Document
	Sum     uint64 // digest of the raw bytes the row was parsed from; zero for direct adds
}

// Parser turns raw bytes into a Document.
type Parser func(data []byte) (Document, error)

// Validator decides whether a document is admissible.
// A nil Validator admits everything.
type Validator func(doc Document) bool

// EventType represents the type of change in the cache.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a cached schema source.
type Event struct {
	Type      EventType
	Source    string
	Timestamp int64 // Unix timestamp
}

// String implements the lifecycle event contract.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Source)
}
