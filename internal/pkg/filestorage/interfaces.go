package filestorage

import (
	"context"
)

// Photo is a decoded image ready to be stored
type Photo struct {
	Data      []byte
	MimeType  string
	Extension string // with leading dot, e.g. ".jpg"
}

// PhotoStorage stores post photos under caller-chosen object names and
// returns a retrievable URL
type PhotoStorage interface {
	// SavePhoto stores photo as name and returns its public URL
	SavePhoto(ctx context.Context, name string, photo *Photo) (string, error)

	// DeletePhoto removes the named object. Missing objects are not an error.
	DeletePhoto(ctx context.Context, name string) error
}
