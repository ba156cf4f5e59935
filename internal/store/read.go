package store

import (
	"context"
	"fmt"

	"tagvault/internal/schema"
)

// FileRecord is one row of the files table. TagIDs is populated only by
// ReadAllFiles.
type FileRecord struct {
	ID     int64
	Path   string
	Digest string
	TagIDs []int64
}

// GroupRecord is one row of the tag_groups table. TagIDs is populated only
// by ReadAllGroups.
type GroupRecord struct {
	ID     int64
	Name   string
	TagIDs []int64
}

// TagRecord is one row of the tags table. FileIDs is populated only by
// ReadAllTags.
type TagRecord struct {
	ID      int64
	Name    string
	GroupID int64
	FileIDs []int64
}

// ReadAllGroups returns every tag group, each enriched with the IDs of the
// tags it owns. Ordered by primary key for deterministic results.
func (s *Store) ReadAllGroups(ctx context.Context) ([]GroupRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, group_name FROM "+schema.TableTagGroups+" ORDER BY group_id ASC")
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	groups := []GroupRecord{}
	for rows.Next() {
		var g GroupRecord
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	tagsByGroup, err := s.tagIDsByGroup(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		groups[i].TagIDs = tagsByGroup[groups[i].ID]
	}
	return groups, nil
}

// ReadAllTags returns every tag, each enriched with the IDs of its
// associated files. Ordered by primary key for deterministic results.
func (s *Store) ReadAllTags(ctx context.Context) ([]TagRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT tag_id, tag_name, tag_group FROM "+schema.TableTags+" ORDER BY tag_id ASC")
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := []TagRecord{}
	for rows.Next() {
		var t TagRecord
		if err := rows.Scan(&t.ID, &t.Name, &t.GroupID); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	filesByTag, _, err := s.linksByEndpoint(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tags {
		tags[i].FileIDs = filesByTag[tags[i].ID]
	}
	return tags, nil
}

// ReadAllFiles returns every file, each enriched with the IDs of its
// associated tags. Ordered by primary key for deterministic results.
func (s *Store) ReadAllFiles(ctx context.Context) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT file_id, file_path, file_digest FROM "+schema.TableFiles+" ORDER BY file_id ASC")
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	files := []FileRecord{}
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.ID, &f.Path, &f.Digest); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	_, tagsByFile, err := s.linksByEndpoint(ctx)
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i].TagIDs = tagsByFile[files[i].ID]
	}
	return files, nil
}

// FileByPath returns the file row for an exact path.
// Returns sql.ErrNoRows (wrapped) if no such file is registered.
func (s *Store) FileByPath(ctx context.Context, path string) (FileRecord, error) {
	var f FileRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT file_id, file_path, file_digest FROM "+schema.TableFiles+" WHERE file_path = ?",
		path,
	).Scan(&f.ID, &f.Path, &f.Digest)
	if err != nil {
		return FileRecord{}, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// FileByDigest returns the file row holding the given content digest.
// Returns sql.ErrNoRows (wrapped) if no file has that content.
func (s *Store) FileByDigest(ctx context.Context, dig string) (FileRecord, error) {
	var f FileRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT file_id, file_path, file_digest FROM "+schema.TableFiles+" WHERE file_digest = ?",
		dig,
	).Scan(&f.ID, &f.Path, &f.Digest)
	if err != nil {
		return FileRecord{}, fmt.Errorf("file by digest: %w", err)
	}
	return f, nil
}

// GroupByName returns the group row with the given name.
// Returns sql.ErrNoRows (wrapped) if no such group exists.
func (s *Store) GroupByName(ctx context.Context, name string) (GroupRecord, error) {
	var g GroupRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT group_id, group_name FROM "+schema.TableTagGroups+" WHERE group_name = ?",
		name,
	).Scan(&g.ID, &g.Name)
	if err != nil {
		return GroupRecord{}, fmt.Errorf("group by name: %w", err)
	}
	return g, nil
}

// TagByName returns the tag row with the given name under the given group.
// Returns sql.ErrNoRows (wrapped) if no such tag exists.
func (s *Store) TagByName(ctx context.Context, groupID int64, name string) (TagRecord, error) {
	var t TagRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT tag_id, tag_name, tag_group FROM "+schema.TableTags+" WHERE tag_name = ? AND tag_group = ?",
		name, groupID,
	).Scan(&t.ID, &t.Name, &t.GroupID)
	if err != nil {
		return TagRecord{}, fmt.Errorf("tag by name: %w", err)
	}
	return t, nil
}

// tagIDsByGroup buckets the tags table by owning group in one query.
func (s *Store) tagIDsByGroup(ctx context.Context) (map[int64][]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT tag_id, tag_group FROM "+schema.TableTags+" ORDER BY tag_id ASC")
	if err != nil {
		return nil, fmt.Errorf("query tag ownership: %w", err)
	}
	defer rows.Close()

	byGroup := make(map[int64][]int64)
	for rows.Next() {
		var tagID, groupID int64
		if err := rows.Scan(&tagID, &groupID); err != nil {
			return nil, fmt.Errorf("scan tag ownership: %w", err)
		}
		byGroup[groupID] = append(byGroup[groupID], tagID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag ownership: %w", err)
	}
	return byGroup, nil
}

// linksByEndpoint buckets the association table by both endpoints in one
// query, so ReadAll callers never stitch associations themselves.
func (s *Store) linksByEndpoint(ctx context.Context) (filesByTag, tagsByFile map[int64][]int64, err error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT tag, file FROM "+schema.TableTaggedFiles+" ORDER BY tag ASC, file ASC")
	if err != nil {
		return nil, nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	filesByTag = make(map[int64][]int64)
	tagsByFile = make(map[int64][]int64)
	for rows.Next() {
		var tagID, fileID int64
		if err := rows.Scan(&tagID, &fileID); err != nil {
			return nil, nil, fmt.Errorf("scan link: %w", err)
		}
		filesByTag[tagID] = append(filesByTag[tagID], fileID)
		tagsByFile[fileID] = append(tagsByFile[fileID], tagID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate links: %w", err)
	}
	return filesByTag, tagsByFile, nil
}
