package pricefeed

import (
	"context"
	"os"
)

// FileSource reads the scraper's drop file on every call. The scraper
// rewrites the file out-of-band; rereading keeps quotes current without any
// coordination.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Prices(ctx context.Context) Snapshot {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return Defaults()
	}
	return ParseText(string(raw))
}
