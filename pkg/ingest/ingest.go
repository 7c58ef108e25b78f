// Package ingest defines the boundary to platform scraper adapters and
// provides the JSON handoff format plus a reference RSS adapter.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/carzl/leadradar/pkg/item"
)

// Source is the interface every adapter implements. Fetching policy
// (timeouts, retries, pagination) belongs to the adapter, not the pipeline.
type Source interface {
	Name() item.Platform
	Fetch(ctx context.Context) ([]item.RawItem, error)
}

// Read decodes a JSON array of raw items, the handoff format external
// scrapers write for the pipeline.
func Read(r io.Reader) ([]item.RawItem, error) {
	var raws []item.RawItem
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode raw items: %w", err)
	}
	return raws, nil
}

// ReadFile reads a JSON raw-item batch from disk.
func ReadFile(path string) ([]item.RawItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raw items %s: %w", path, err)
	}
	defer f.Close()

	raws, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read raw items %s: %w", path, err)
	}
	return raws, nil
}
