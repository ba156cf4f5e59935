// Package vault is the entity-level operations layer over the store and
// the in-memory domain graph.
//
// A Session is an explicit open-store handle: Open acquires it, Close
// releases it. Every operation composes a store write with the matching
// graph update, applied only for items the store accepted, so the two
// representations never diverge from the caller's point of view.
//
// Invariants the store alone cannot express live here: a tag with
// associated files and a group that still owns tags refuse deletion before
// any store call is made, and a rejected file registration is
// disambiguated into duplicate-content versus duplicate-path by a
// follow-up digest lookup.
//
// The model is single-writer and synchronous. Callers serialize access to
// a Session; there is no internal locking.
package vault

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"tagvault/internal/graph"
	"tagvault/internal/store"
)

// Session is an open store plus its loaded domain graph. One Session owns
// one store file; open a new Session only after closing the previous one.
type Session struct {
	id    string
	store *store.Store
	graph *graph.Graph
	log   *slog.Logger
}

// Options configures Open.
type Options struct {
	// Seed holds default groups and tags applied only to a fresh store.
	Seed *store.Seed

	// Logger receives session and store log records. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Open opens or creates the store at path, bulk-loads the domain graph,
// and returns a Ready session. Open-time failures (invalid format, schema
// mismatch, create failure) release the store handle and return the
// store's typed error untouched.
//
// The session is tagged with a UUIDv7 token carried on every log record,
// so one open-store lifetime can be followed through the logs.
func Open(ctx context.Context, path string, opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	id := uuid.Must(uuid.NewV7()).String()
	log = log.With("session", id)

	st, err := store.Open(path, store.Options{Seed: opts.Seed, Logger: log})
	if err != nil {
		return nil, err
	}

	g, err := graph.Load(ctx, st)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load domain graph: %w", err)
	}

	log.Info("session open",
		"groups", g.GroupCount(), "tags", g.TagCount(), "files", g.FileCount())
	return &Session{id: id, store: st, graph: g, log: log}, nil
}

// Close drains the domain graph and releases the store handle. The
// session must not be used afterwards.
func (s *Session) Close() error {
	s.graph.Clear()
	s.log.Info("session closed")
	return s.store.Close()
}

// ID returns the session's log-correlation token.
func (s *Session) ID() string {
	return s.id
}

// Path returns the open store file's path.
func (s *Session) Path() string {
	return s.store.Path()
}

// Graph exposes the loaded domain graph for read-only navigation.
// Mutations go through Session operations only.
func (s *Session) Graph() *graph.Graph {
	return s.graph
}

// Groups returns all tag groups in ascending key order.
func (s *Session) Groups() []*graph.TagGroup {
	return s.graph.Groups()
}

// Tags returns all tags in ascending key order.
func (s *Session) Tags() []*graph.Tag {
	return s.graph.Tags()
}

// TagsIn returns the tags owned by a group.
func (s *Session) TagsIn(groupID int64) ([]*graph.Tag, error) {
	group := s.graph.Group(groupID)
	if group == nil {
		return nil, notFound("group", groupID)
	}
	return s.graph.TagsIn(group), nil
}

// Files returns all registered files in ascending key order.
func (s *Session) Files() []*graph.File {
	return s.graph.Files()
}

// FilesByTag returns the files associated with a tag.
func (s *Session) FilesByTag(tagID int64) ([]*graph.File, error) {
	tag := s.graph.Tag(tagID)
	if tag == nil {
		return nil, notFound("tag", tagID)
	}
	return s.graph.FilesOf(tag), nil
}
