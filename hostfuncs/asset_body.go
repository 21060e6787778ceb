package hostfuncs

import (
	"bytes"
	"io"
)

// DefaultMaxAssetSize is the default limit for an asset body returned by
// fetch_asset (32MB). Model weight shards are far below it.
const DefaultMaxAssetSize = 32 << 20

// DefaultMaxRequestSize limits the size of incoming payloads (8MB).
// Camera frames arrive as data URLs, so this is larger than a landmark frame
// needs.
const DefaultMaxRequestSize = 8 << 20

// readAssetBody reads at most limit bytes of r. truncated reports whether r
// had more; the rest is drained so the underlying transport can be reused.
func readAssetBody(r io.Reader, limit int) (body []byte, truncated bool, err error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, false, err
	}
	if n <= int64(limit) {
		return buf.Bytes(), false, nil
	}
	_, _ = io.Copy(io.Discard, r)
	return buf.Bytes()[:limit], true, nil
}
