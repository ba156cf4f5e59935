package graph

import (
	"context"
	"fmt"

	"tagvault/internal/store"
)

// Load bulk-loads the graph from a Ready store.
//
// Stage order is load-bearing: tags reference groups and the association
// wiring references tags, so groups load first, then tags, then files with
// their association links. A dangling reference in the store is a
// consistency fault and fails the load.
func Load(ctx context.Context, st *store.Store) (*Graph, error) {
	g := New()

	groups, err := st.ReadAllGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	for _, rec := range groups {
		g.AddGroup(rec.ID, rec.Name)
	}

	tags, err := st.ReadAllTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	for _, rec := range tags {
		if g.Group(rec.GroupID) == nil {
			return nil, fmt.Errorf("load tags: tag %d references missing group %d", rec.ID, rec.GroupID)
		}
		g.AddTag(rec.ID, rec.Name, rec.GroupID)
	}

	files, err := st.ReadAllFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load files: %w", err)
	}
	for _, rec := range files {
		g.AddFile(rec.ID, rec.Path, rec.Digest)
		for _, tagID := range rec.TagIDs {
			if g.Tag(tagID) == nil {
				return nil, fmt.Errorf("load files: file %d references missing tag %d", rec.ID, tagID)
			}
			g.Link(tagID, rec.ID)
		}
	}

	return g, nil
}
