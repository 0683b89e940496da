package sources

import (
	"context"
	"fmt"
	"os"

	"github.com/i474232898/commodity-dashboard/internal/market"
)

// FileSource reads the ministry CSV from the local filesystem on every load,
// so replacing the file is picked up by the next refresh.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file"
}

func (s *FileSource) Load(_ context.Context) (market.Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	return market.ParseCSV(f)
}
