package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed describes default groups and tags created on a fresh store. It
// mirrors the YAML layout accepted by LoadSeed:
//
//	groups:
//	  - name: People
//	    tags: [Alice, Bob]
//	  - name: Places
//	    tags: [New York]
type Seed struct {
	Groups []SeedGroup `yaml:"groups"`
}

// SeedGroup is one seeded group and the tags created under it.
type SeedGroup struct {
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags"`
}

// LoadSeed reads a seed definition from a YAML file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &seed, nil
}

// applySeed creates the seed's groups and tags. Runs only against a store
// that was just initialized, so any failure is a create failure, not a
// recoverable per-item condition.
func (s *Store) applySeed(seed *Seed) error {
	ctx := context.Background()
	for _, sg := range seed.Groups {
		groupResults := s.CreateGroups(ctx, []GroupCreate{{Name: sg.Name}})
		if err := groupResults[0].Err; err != nil {
			return fmt.Errorf("seed group %q: %w", sg.Name, err)
		}
		groupID := groupResults[0].ID

		tagReqs := make([]TagCreate, len(sg.Tags))
		for i, name := range sg.Tags {
			tagReqs[i] = TagCreate{Name: name, GroupID: groupID}
		}
		for _, res := range s.CreateTags(ctx, tagReqs) {
			if res.Err != nil {
				return fmt.Errorf("seed tag %q in group %q: %w", res.Name, sg.Name, res.Err)
			}
		}
	}
	s.log.Info("seed applied", "groups", len(seed.Groups))
	return nil
}
