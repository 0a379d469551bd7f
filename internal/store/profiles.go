package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matt-dz/savorystories/internal/model"
)

// Profiles remembers the signed-in chef of each visitor so pages can show
// the name and avatar without asking the backend.
type Profiles struct {
	kv KV
}

func NewProfiles(d Driver) *Profiles {
	return &Profiles{kv: d.Namespace(profileNamespace)}
}

// Load returns the chef stored for visitor.
func (p *Profiles) Load(ctx context.Context, visitor string) (model.Chef, bool, error) {
	raw, ok, err := p.kv.Get(ctx, visitor)
	if err != nil || !ok {
		return model.Chef{}, false, err
	}
	var chef model.Chef
	if err := json.Unmarshal(raw, &chef); err != nil {
		return model.Chef{}, false, fmt.Errorf("decoding profile: %w", err)
	}
	return chef, true, nil
}

// Set replaces the chef stored for visitor.
func (p *Profiles) Set(ctx context.Context, visitor string, chef model.Chef) error {
	raw, err := json.Marshal(chef)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	return p.kv.Set(ctx, visitor, raw)
}

// Update merges the non-empty fields of patch into the stored chef. When
// nothing is stored it does nothing and reports false.
func (p *Profiles) Update(ctx context.Context, visitor string, patch model.Chef) (model.Chef, bool, error) {
	chef, ok, err := p.Load(ctx, visitor)
	if err != nil || !ok {
		return model.Chef{}, false, err
	}
	chef = chef.Merge(patch)
	if err := p.Set(ctx, visitor, chef); err != nil {
		return model.Chef{}, false, err
	}
	return chef, true, nil
}

// Clear forgets the chef of visitor.
func (p *Profiles) Clear(ctx context.Context, visitor string) error {
	return p.kv.Delete(ctx, visitor)
}
