package store

import (
	"context"
	"fmt"

	"tagvault/internal/schema"
)

// DeleteResult is the per-item outcome of an entity deletion.
type DeleteResult struct {
	ID  int64
	Err *ItemError
}

// DeleteFiles removes file rows by primary key. Deleting a tagged file is
// permitted: its association rows are removed first, inside the same
// transaction, so the delete cascades rather than tripping the RESTRICT
// constraint. A key matching no row fails with NOT_FOUND.
func (s *Store) DeleteFiles(ctx context.Context, ids []int64) []DeleteResult {
	results := make([]DeleteResult, len(ids))
	for i, id := range ids {
		results[i] = DeleteResult{ID: id}
		if err := s.deleteFile(ctx, id); err != nil {
			results[i].Err = classify(err)
			s.log.Warn("file delete failed", "id", id, "error", results[i].Err)
			continue
		}
		s.log.Debug("file removed", "id", id)
	}
	return results
}

func (s *Store) deleteFile(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin file delete: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM "+schema.TableTaggedFiles+" WHERE file = ?", id); err != nil {
		return fmt.Errorf("delete file links: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM "+schema.TableFiles+" WHERE file_id = ?", id)
	if err != nil {
		return fmt.Errorf("delete file row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("file delete rows affected: %w", err)
	}
	if affected == 0 {
		return errNotFound("file", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit file delete: %w", err)
	}
	return nil
}

// DeleteGroups removes group rows by primary key. A group still owning
// tags is rejected by the store's RESTRICT constraint and surfaces as a
// per-item REFERENTIAL_CONSTRAINT failure, never a partial cascade.
func (s *Store) DeleteGroups(ctx context.Context, ids []int64) []DeleteResult {
	return s.deleteByKey(ctx, schema.TableTagGroups, "group_id", "group", ids)
}

// DeleteTags removes tag rows by primary key. A tag still associated with
// files is rejected by the store's RESTRICT constraint as a per-item
// REFERENTIAL_CONSTRAINT failure.
func (s *Store) DeleteTags(ctx context.Context, ids []int64) []DeleteResult {
	return s.deleteByKey(ctx, schema.TableTags, "tag_id", "tag", ids)
}

func (s *Store) deleteByKey(ctx context.Context, table, keyCol, kind string, ids []int64) []DeleteResult {
	results := make([]DeleteResult, len(ids))
	for i, id := range ids {
		results[i] = DeleteResult{ID: id}
		res, err := s.db.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE "+keyCol+" = ?", id)
		if err != nil {
			results[i].Err = classify(err)
			s.log.Warn(kind+" delete failed", "id", id, "error", results[i].Err)
			continue
		}
		affected, err := res.RowsAffected()
		if err != nil {
			results[i].Err = classify(err)
			continue
		}
		if affected == 0 {
			results[i].Err = classifyNotFound(kind, id)
			continue
		}
		s.log.Debug(kind+" removed", "id", id)
	}
	return results
}

// DeleteLinks removes tag-file association rows, one result per pair.
// A pair matching no row fails with NOT_FOUND.
func (s *Store) DeleteLinks(ctx context.Context, links []Link) []LinkResult {
	results := make([]LinkResult, len(links))
	for i, link := range links {
		results[i] = LinkResult{Link: link}
		res, err := s.db.ExecContext(ctx,
			"DELETE FROM "+schema.TableTaggedFiles+" WHERE tag = ? AND file = ?",
			link.TagID, link.FileID,
		)
		if err != nil {
			results[i].Err = classify(err)
			s.log.Warn("link delete failed", "tag", link.TagID, "file", link.FileID, "error", results[i].Err)
			continue
		}
		affected, err := res.RowsAffected()
		if err != nil {
			results[i].Err = classify(err)
			continue
		}
		if affected == 0 {
			results[i].Err = &ItemError{
				Code:    FailNotFound,
				Message: fmt.Sprintf("no association between tag %d and file %d", link.TagID, link.FileID),
			}
			continue
		}
		s.log.Debug("link removed", "tag", link.TagID, "file", link.FileID)
	}
	return results
}

type notFoundError struct {
	kind string
	id   int64
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.kind, e.id)
}

func errNotFound(kind string, id int64) error {
	return notFoundError{kind: kind, id: id}
}

func classifyNotFound(kind string, id int64) *ItemError {
	return &ItemError{Code: FailNotFound, Message: errNotFound(kind, id).Error()}
}
