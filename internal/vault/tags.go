package vault

import (
	"context"

	"golang.org/x/text/unicode/norm"

	"tagvault/internal/graph"
	"tagvault/internal/store"
)

// CreateGroup creates a new empty tag group. The name is NFC-normalized
// before the uniqueness-sensitive write so Unicode-equivalent spellings
// cannot coexist as distinct groups. On a duplicate name the graph is left
// untouched and a DUPLICATE_NAME failure is returned.
func (s *Session) CreateGroup(ctx context.Context, name string) (*graph.TagGroup, error) {
	name = norm.NFC.String(name)

	results := s.store.CreateGroups(ctx, []store.GroupCreate{{Name: name}})
	if itemErr := results[0].Err; itemErr != nil {
		return nil, fromItemError(itemErr, ErrCodeDuplicateName)
	}
	return s.graph.AddGroup(results[0].ID, name), nil
}

// DeleteGroup removes a tag group. The group must own zero tags; a
// populated group fails with GROUP_IN_USE before any store call, with the
// store's own RESTRICT constraint as the second line of defense.
func (s *Session) DeleteGroup(ctx context.Context, groupID int64) error {
	group := s.graph.Group(groupID)
	if group == nil {
		return notFound("group", groupID)
	}
	if group.TagCount() > 0 {
		return &OpError{
			Code:    ErrCodeGroupInUse,
			Message: "group " + group.Name + " still owns tags",
		}
	}

	results := s.store.DeleteGroups(ctx, []int64{groupID})
	if itemErr := results[0].Err; itemErr != nil {
		return fromItemError(itemErr, ErrCodeDuplicateName)
	}
	s.graph.RemoveGroup(groupID)
	return nil
}

// RenameGroup changes a group's name, NFC-normalized. The graph is
// updated only after the store accepts the new name.
func (s *Session) RenameGroup(ctx context.Context, groupID int64, newName string) error {
	if s.graph.Group(groupID) == nil {
		return notFound("group", groupID)
	}
	newName = norm.NFC.String(newName)

	if itemErr := s.store.RenameGroup(ctx, groupID, newName); itemErr != nil {
		return fromItemError(itemErr, ErrCodeDuplicateName)
	}
	s.graph.RenameGroup(groupID, newName)
	return nil
}

// CreateTag creates a tag under an existing group. Tag names are unique
// within their group, not globally; the name is NFC-normalized.
func (s *Session) CreateTag(ctx context.Context, groupID int64, name string) (*graph.Tag, error) {
	if s.graph.Group(groupID) == nil {
		return nil, notFound("group", groupID)
	}
	name = norm.NFC.String(name)

	results := s.store.CreateTags(ctx, []store.TagCreate{{Name: name, GroupID: groupID}})
	if itemErr := results[0].Err; itemErr != nil {
		return nil, fromItemError(itemErr, ErrCodeDuplicateName)
	}
	return s.graph.AddTag(results[0].ID, name, groupID), nil
}

// DeleteTag removes a tag. A tag still associated with files fails with
// TAG_IN_USE before any store call is attempted, keeping the behavior
// identical regardless of the backing store's enforcement mode. On
// success the tag is detached from its owning group.
func (s *Session) DeleteTag(ctx context.Context, tagID int64) error {
	tag := s.graph.Tag(tagID)
	if tag == nil {
		return notFound("tag", tagID)
	}
	if tag.FileCount() > 0 {
		return &OpError{
			Code:    ErrCodeTagInUse,
			Message: "tag " + tag.Name + " is still associated with files",
		}
	}

	results := s.store.DeleteTags(ctx, []int64{tagID})
	if itemErr := results[0].Err; itemErr != nil {
		return fromItemError(itemErr, ErrCodeDuplicateName)
	}
	s.graph.RemoveTag(tagID)
	return nil
}

// RenameTag changes a tag's name within its group, NFC-normalized.
func (s *Session) RenameTag(ctx context.Context, tagID int64, newName string) error {
	if s.graph.Tag(tagID) == nil {
		return notFound("tag", tagID)
	}
	newName = norm.NFC.String(newName)

	if itemErr := s.store.RenameTag(ctx, tagID, newName); itemErr != nil {
		return fromItemError(itemErr, ErrCodeDuplicateName)
	}
	s.graph.RenameTag(tagID, newName)
	return nil
}
