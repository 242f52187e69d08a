package models

import (
	"context"
	"encoding/json"
	"fmt"
)

type CatalogRepo interface {
	GetCatalog(ctx context.Context) ([]CatalogItem, error)
	SaveCatalog(ctx context.Context, items []CatalogItem) error
}

// GetCatalog returns nil when nothing has been persisted yet.
func (kv *KVRepo) GetCatalog(ctx context.Context) ([]CatalogItem, error) {
	raw, found, err := kv.store.Get(ctx, CatalogKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if !found {
		return nil, nil
	}

	var items []CatalogItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: catalog: %v", ErrCorruptRecord, err)
	}
	for i := range items {
		if items[i].Reviews == nil {
			items[i].Reviews = []Review{}
		}
	}
	return items, nil
}

// SaveCatalog replaces the whole stored catalog.
func (kv *KVRepo) SaveCatalog(ctx context.Context, items []CatalogItem) error {
	out := CloneCatalog(items)
	for i := range out {
		if out[i].Reviews == nil {
			out[i].Reviews = []Review{}
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %v", err)
	}
	if err := kv.store.Set(ctx, CatalogKey, string(data)); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}
