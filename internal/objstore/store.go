package objstore

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// ErrDecode marks an input object whose bytes are not valid gzip-compressed
// JSON of the shape {"items": [...]}. It is fatal for the invocation; a
// corrupt object is never silently skipped.
var ErrDecode = errors.New("object decode failed")

// Pager is one page of a prefix listing. Implementations return the
// continuation token for the next page, or "" when the listing is complete.
type Pager interface {
	ListPage(ctx context.Context, bucket, prefix, token string) (keys []string, next string, err error)
}

// ListAll walks every page under bucket/prefix and returns the concatenated
// keys in listing order. An empty listing is a valid empty result.
func ListAll(ctx context.Context, p Pager, bucket, prefix string) ([]string, error) {
	var keys []string
	token := ""
	for {
		page, next, err := p.ListPage(ctx, bucket, prefix, token)
		if err != nil {
			return nil, errors.Wrap(err, "list page")
		}
		keys = append(keys, page...)
		if next == "" {
			return keys, nil
		}
		token = next
	}
}

// DecodeChatPage gunzips and parses one stored chat object. The payload must
// be a JSON mapping with an "items" key holding an ordered array of chat
// actions; anything else is an ErrDecode. The object is read in full before
// decoding starts, so an I/O failure on a lazy reader surfaces as a plain
// read error, never as ErrDecode.
func DecodeChatPage(r io.Reader) ([]map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read object")
	}

	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "gunzip: %v", err)
	}
	defer gz.Close()

	var doc map[string]json.RawMessage
	if err := json.NewDecoder(gz).Decode(&doc); err != nil {
		return nil, errors.Wrapf(ErrDecode, "parse json: %v", err)
	}
	raw, ok := doc["items"]
	if !ok {
		return nil, errors.Wrap(ErrDecode, "missing items key")
	}
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.Wrapf(ErrDecode, "parse items: %v", err)
	}
	return items, nil
}
