package ports

import "io"

// AssetStore provides read access to the bundled asset namespace
// (model.json, weight shards, bootstrap scripts, entry page).
type AssetStore interface {
	// Open returns the named asset. A missing asset yields an error
	// satisfying errors.Is(err, fs.ErrNotExist).
	Open(name string) (io.ReadCloser, error)
}
