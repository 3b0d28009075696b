// Package repository holds the loaded companies.
package repository

import (
	"context"

	"github.com/okian/climatedash/internal/domain/model"
)

// Summary identifies a company in the loaded list.
type Summary struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Store provides access to the current data set.
type Store interface {
	// Replace swaps the whole data set. The previous one is discarded.
	Replace(ctx context.Context, companies []*model.Company)

	// At returns the company at index.
	// Returns ErrIndexOutOfRange for an index outside the list.
	At(ctx context.Context, index int) (*model.Company, error)

	// ByName returns the first company with the given name and its index.
	// Returns ErrNotFound when no company matches.
	ByName(ctx context.Context, name string) (int, *model.Company, error)

	// List returns index and name of every company in load order.
	List(ctx context.Context) []Summary

	// Count returns the number of loaded companies.
	Count(ctx context.Context) int
}
