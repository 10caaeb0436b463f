package assets

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/imgsz"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// Store reads static brand assets (logos, cover images) from a directory.
// Assets are read-only; every export resolves its references once and the
// store keeps no per-request state.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads a named asset and decodes it to an Image sized in pixel units.
// The name is sanitized against path traversal; the format is sniffed from
// content, never from the extension.
func (s *Store) Load(name string) (*Image, error) {
	clean := filepath.Clean("/" + strings.TrimLeft(name, "/"))
	full := filepath.Join(s.dir, clean)

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("sniff asset %s: %w", name, err)
	}
	var format Format
	switch kind {
	case matchers.TypePng:
		format = PNG
	case matchers.TypeJpeg:
		format = JPEG
	case matchers.TypeGif:
		format = GIF
	case matchers.TypeBmp:
		format = BMP
	default:
		return nil, fmt.Errorf("asset %s: unsupported type %q", name, kind.Extension)
	}

	sz, _, err := imgsz.DecodeSize(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("sniff asset %s dimensions: %w", name, err)
	}

	return &Image{Width: sz.Width, Height: sz.Height, Data: data, Format: format}, nil
}
