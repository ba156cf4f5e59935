package store

import (
	"context"
	"path/filepath"

	"tagvault/internal/digest"
	"tagvault/internal/schema"
)

// FileCreate requests registration of one filesystem path.
type FileCreate struct {
	Path string
}

// FileResult is the per-item outcome of a file creation. On success ID and
// Digest are set; on failure Err is set (with Err.Digest carrying the
// computed digest when the content was readable).
type FileResult struct {
	Path   string
	ID     int64
	Digest string
	Err    *ItemError
}

// GroupCreate requests creation of one tag group.
type GroupCreate struct {
	Name string
}

// GroupResult is the per-item outcome of a group creation.
type GroupResult struct {
	Name string
	ID   int64
	Err  *ItemError
}

// TagCreate requests creation of one tag under an existing group.
type TagCreate struct {
	Name    string
	GroupID int64
}

// TagResult is the per-item outcome of a tag creation.
type TagResult struct {
	Name    string
	GroupID int64
	ID      int64
	Err     *ItemError
}

// Link is one tag-file association pair.
type Link struct {
	TagID  int64
	FileID int64
}

// LinkResult is the per-item outcome of an association create or delete.
type LinkResult struct {
	Link
	Err *ItemError
}

// CreateFiles registers the given paths, one row per readable file. The
// content digest is computed before insertion; a path that is not a regular
// file fails with NOT_A_FILE and never reaches the database. Constraint
// violations (duplicate path or duplicate digest) fail per item, carrying
// the computed digest for follow-up disambiguation. The batch never aborts
// early.
func (s *Store) CreateFiles(ctx context.Context, reqs []FileCreate) []FileResult {
	results := make([]FileResult, len(reqs))
	for i, req := range reqs {
		results[i] = s.createFile(ctx, req.Path)
	}
	return results
}

func (s *Store) createFile(ctx context.Context, path string) FileResult {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileResult{Path: path, Err: &ItemError{Code: FailNotAFile, Message: err.Error()}}
	}

	dig, err := digest.File(abs)
	if err != nil {
		s.log.Warn("file rejected", "path", abs, "error", err)
		return FileResult{Path: abs, Err: classify(err)}
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO "+schema.TableFiles+" (file_path, file_digest) VALUES (?, ?)",
		abs, dig,
	)
	if err != nil {
		itemErr := classify(err)
		itemErr.Digest = dig
		s.log.Warn("file insert failed", "path", abs, "error", itemErr)
		return FileResult{Path: abs, Digest: dig, Err: itemErr}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return FileResult{Path: abs, Digest: dig, Err: classify(err)}
	}
	s.log.Debug("file added", "path", abs, "id", id)
	return FileResult{Path: abs, ID: id, Digest: dig}
}

// CreateGroups inserts tag groups by name, one result per request.
func (s *Store) CreateGroups(ctx context.Context, reqs []GroupCreate) []GroupResult {
	results := make([]GroupResult, len(reqs))
	for i, req := range reqs {
		results[i] = GroupResult{Name: req.Name}
		res, err := s.db.ExecContext(ctx,
			"INSERT INTO "+schema.TableTagGroups+" (group_name) VALUES (?)",
			req.Name,
		)
		if err != nil {
			results[i].Err = classify(err)
			s.log.Warn("group insert failed", "name", req.Name, "error", results[i].Err)
			continue
		}
		id, err := res.LastInsertId()
		if err != nil {
			results[i].Err = classify(err)
			continue
		}
		results[i].ID = id
		s.log.Debug("group added", "name", req.Name, "id", id)
	}
	return results
}

// CreateTags inserts tags under their owning groups, one result per
// request. A missing group surfaces as a REFERENTIAL_CONSTRAINT failure.
func (s *Store) CreateTags(ctx context.Context, reqs []TagCreate) []TagResult {
	results := make([]TagResult, len(reqs))
	for i, req := range reqs {
		results[i] = TagResult{Name: req.Name, GroupID: req.GroupID}
		res, err := s.db.ExecContext(ctx,
			"INSERT INTO "+schema.TableTags+" (tag_name, tag_group) VALUES (?, ?)",
			req.Name, req.GroupID,
		)
		if err != nil {
			results[i].Err = classify(err)
			s.log.Warn("tag insert failed", "name", req.Name, "group", req.GroupID, "error", results[i].Err)
			continue
		}
		id, err := res.LastInsertId()
		if err != nil {
			results[i].Err = classify(err)
			continue
		}
		results[i].ID = id
		s.log.Debug("tag added", "name", req.Name, "group", req.GroupID, "id", id)
	}
	return results
}

// CreateLinks inserts tag-file association rows, one result per pair.
// Duplicate pairs fail with UNIQUE_CONSTRAINT; a dangling endpoint fails
// with REFERENTIAL_CONSTRAINT.
func (s *Store) CreateLinks(ctx context.Context, links []Link) []LinkResult {
	results := make([]LinkResult, len(links))
	for i, link := range links {
		results[i] = LinkResult{Link: link}
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO "+schema.TableTaggedFiles+" (tag, file) VALUES (?, ?)",
			link.TagID, link.FileID,
		)
		if err != nil {
			results[i].Err = classify(err)
			s.log.Warn("link insert failed", "tag", link.TagID, "file", link.FileID, "error", results[i].Err)
			continue
		}
		s.log.Debug("link added", "tag", link.TagID, "file", link.FileID)
	}
	return results
}
