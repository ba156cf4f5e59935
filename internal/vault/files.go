package vault

import (
	"context"
	"fmt"

	"tagvault/internal/graph"
	"tagvault/internal/store"
)

// FileResult is the per-item outcome of a batch file registration.
type FileResult struct {
	Path string
	File *graph.File
	Err  *OpError
}

// TagFileResult is the per-item outcome of a batch tag/untag operation.
type TagFileResult struct {
	TagID  int64
	FileID int64
	Err    *OpError
}

// RegisterFile registers a single filesystem path. The content digest is
// computed up front; on success the file joins the graph with an empty
// tag set.
//
// A uniqueness rejection is disambiguated by a follow-up digest lookup,
// because the store cannot reliably say which constraint fired:
//   - the digest exists under another path → DUPLICATE_CONTENT, naming
//     that path;
//   - the digest exists under this exact path → ALREADY_REGISTERED;
//   - the digest is absent → the path is taken by different content →
//     DUPLICATE_PATH.
func (s *Session) RegisterFile(ctx context.Context, path string) (*graph.File, error) {
	results := s.RegisterFiles(ctx, []string{path})
	if results[0].Err != nil {
		return nil, results[0].Err
	}
	return results[0].File, nil
}

// RegisterFiles registers a batch of paths with per-item results. One bad
// path never aborts the rest of the batch.
func (s *Session) RegisterFiles(ctx context.Context, paths []string) []FileResult {
	reqs := make([]store.FileCreate, len(paths))
	for i, path := range paths {
		reqs[i] = store.FileCreate{Path: path}
	}

	storeResults := s.store.CreateFiles(ctx, reqs)
	results := make([]FileResult, len(storeResults))
	for i, res := range storeResults {
		results[i] = FileResult{Path: res.Path}
		if res.Err == nil {
			results[i].File = s.graph.AddFile(res.ID, res.Path, res.Digest)
			continue
		}
		results[i].Err = s.explainFileFailure(ctx, res)
	}
	return results
}

// explainFileFailure turns a rejected file insert into a precise domain
// failure.
func (s *Session) explainFileFailure(ctx context.Context, res store.FileResult) *OpError {
	if res.Err.Code != store.FailUnique {
		return fromItemError(res.Err, ErrCodeDuplicatePath)
	}

	existing, err := s.store.FileByDigest(ctx, res.Err.Digest)
	if err != nil {
		// No row holds this content, so the path itself must be taken.
		return &OpError{
			Code:    ErrCodeDuplicatePath,
			Message: fmt.Sprintf("path %s is already registered under a different identity", res.Path),
		}
	}
	if existing.Path == res.Path {
		return &OpError{
			Code:    ErrCodeAlreadyRegistered,
			Message: fmt.Sprintf("file %s is already registered", res.Path),
		}
	}
	return &OpError{
		Code:         ErrCodeDuplicateContent,
		Message:      "this exact content already exists in the store",
		ExistingPath: existing.Path,
	}
}

// DeleteFile removes a file regardless of its tag associations: the
// store delete cascades the association rows, and the graph then detaches
// the file from every tag referencing it.
func (s *Session) DeleteFile(ctx context.Context, fileID int64) error {
	if s.graph.File(fileID) == nil {
		return notFound("file", fileID)
	}

	results := s.store.DeleteFiles(ctx, []int64{fileID})
	if itemErr := results[0].Err; itemErr != nil {
		return fromItemError(itemErr, ErrCodeDuplicatePath)
	}
	s.graph.RemoveFile(fileID)
	return nil
}

// TagFile associates a file with each of the given tags. Per-item
// semantics: only a pair the store accepted is linked in the graph; a
// failed pair leaves both representations unchanged. Pairs whose
// endpoints are missing from the graph fail locally with NOT_FOUND and
// never reach the store.
func (s *Session) TagFile(ctx context.Context, fileID int64, tagIDs ...int64) []TagFileResult {
	return s.applyLinks(ctx, fileID, tagIDs, s.store.CreateLinks, s.graph.Link)
}

// UntagFile removes the association between a file and each of the given
// tags, with the same per-item semantics as TagFile.
func (s *Session) UntagFile(ctx context.Context, fileID int64, tagIDs ...int64) []TagFileResult {
	return s.applyLinks(ctx, fileID, tagIDs, s.store.DeleteLinks, s.graph.Unlink)
}

func (s *Session) applyLinks(
	ctx context.Context,
	fileID int64,
	tagIDs []int64,
	storeOp func(context.Context, []store.Link) []store.LinkResult,
	graphOp func(tagID, fileID int64),
) []TagFileResult {
	results := make([]TagFileResult, len(tagIDs))
	links := make([]store.Link, 0, len(tagIDs))
	pending := make([]int, 0, len(tagIDs))

	for i, tagID := range tagIDs {
		results[i] = TagFileResult{TagID: tagID, FileID: fileID}
		if s.graph.File(fileID) == nil {
			results[i].Err = notFound("file", fileID)
			continue
		}
		if s.graph.Tag(tagID) == nil {
			results[i].Err = notFound("tag", tagID)
			continue
		}
		links = append(links, store.Link{TagID: tagID, FileID: fileID})
		pending = append(pending, i)
	}

	for j, res := range storeOp(ctx, links) {
		i := pending[j]
		if res.Err != nil {
			results[i].Err = fromItemError(res.Err, ErrCodeDuplicateName)
			continue
		}
		graphOp(res.TagID, res.FileID)
	}
	return results
}
