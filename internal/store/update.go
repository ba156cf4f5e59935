package store

import (
	"context"

	"tagvault/internal/schema"
)

// RenameGroup changes a group's name. Returns a typed ItemError on a
// uniqueness violation or when the key matches no row.
func (s *Store) RenameGroup(ctx context.Context, id int64, newName string) *ItemError {
	return s.renameByKey(ctx, schema.TableTagGroups, "group_name", "group_id", "group", id, newName)
}

// RenameTag changes a tag's name within its group. Returns a typed
// ItemError on a uniqueness violation (name already taken in that group)
// or when the key matches no row.
func (s *Store) RenameTag(ctx context.Context, id int64, newName string) *ItemError {
	return s.renameByKey(ctx, schema.TableTags, "tag_name", "tag_id", "tag", id, newName)
}

func (s *Store) renameByKey(ctx context.Context, table, nameCol, keyCol, kind string, id int64, newName string) *ItemError {
	res, err := s.db.ExecContext(ctx,
		"UPDATE "+table+" SET "+nameCol+" = ? WHERE "+keyCol+" = ?",
		newName, id,
	)
	if err != nil {
		itemErr := classify(err)
		s.log.Warn(kind+" rename failed", "id", id, "name", newName, "error", itemErr)
		return itemErr
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if affected == 0 {
		return classifyNotFound(kind, id)
	}
	s.log.Debug(kind+" renamed", "id", id, "name", newName)
	return nil
}
