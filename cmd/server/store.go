package main

import (
	"fmt"

	"brewratio/internal/cache"
	"brewratio/internal/config"
	"brewratio/internal/database/boltstore"
	"brewratio/internal/database/sqlitestore"
)

// localStore is the backend selected by RATIO_STORE.
type localStore struct {
	// Provider is nil when the cache is disabled
	Provider cache.Provider

	// VisitorCount reports -1 when the backend cannot count visitors
	VisitorCount func() int

	Close func() error
}

func openStore(cfg *config.Config) (*localStore, error) {
	switch cfg.Store {
	case config.StoreBolt:
		store, err := boltstore.Open(boltstore.Options{Path: cfg.DBPath})
		if err != nil {
			return nil, err
		}
		return &localStore{Provider: store, VisitorCount: store.VisitorCount, Close: store.Close}, nil

	case config.StoreSQLite:
		store, err := sqlitestore.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return &localStore{Provider: store, VisitorCount: store.VisitorCount, Close: store.Close}, nil

	case config.StoreMemory:
		provider := cache.NewMemoryProvider()
		return &localStore{Provider: provider, VisitorCount: provider.VisitorCount, Close: noClose}, nil

	case config.StoreNone:
		return &localStore{VisitorCount: func() int { return -1 }, Close: noClose}, nil

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func noClose() error { return nil }
