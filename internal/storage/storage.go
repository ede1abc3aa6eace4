package storage

import "io"

// BlobStore abstracts where uploaded files live. Save returns a stable public
// path that can be stored on a record and served back to clients; Remove
// accepts the same path. Keeps the rest of the code independent of any
// particular filesystem layout.
type BlobStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Remove(publicPath string) error
}
