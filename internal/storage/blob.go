package storage

import "io"

// BlobStore keeps the raw uploaded source payloads so the original authoring
// text can be retrieved verbatim after import.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error)
	Get(key string) (io.ReadCloser, error)
}
