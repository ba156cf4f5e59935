// Package graph holds the in-memory mirror of the store: tag groups, tags,
// files, and their associations, with bidirectional navigation.
//
// Entities live in arena-style maps keyed by their store primary key, and
// cross-references between them are key sets resolved through the graph,
// never direct pointers. The tag-file association is cyclic by nature;
// indirection through keys keeps ownership acyclic.
//
// The graph is a cache with write-through semantics. It is only ever
// mutated to match a store write that already succeeded; it is never an
// independent source of truth.
package graph

import "sort"

// TagGroup is a named group owning a set of tags.
type TagGroup struct {
	ID   int64
	Name string

	tagIDs map[int64]struct{}
}

// TagCount returns the number of tags the group owns.
func (g *TagGroup) TagCount() int {
	return len(g.tagIDs)
}

// TagIDs returns the keys of the group's tags in ascending order.
func (g *TagGroup) TagIDs() []int64 {
	return sortedKeys(g.tagIDs)
}

// Tag is a label under one owning group, associated with a set of files.
type Tag struct {
	ID      int64
	Name    string
	GroupID int64

	fileIDs map[int64]struct{}
}

// FileCount returns the number of files associated with the tag.
func (t *Tag) FileCount() int {
	return len(t.fileIDs)
}

// FileIDs returns the keys of the tag's files in ascending order.
func (t *Tag) FileIDs() []int64 {
	return sortedKeys(t.fileIDs)
}

// File is a registered file: content digest identity plus the tag set
// attached to it.
type File struct {
	ID     int64
	Path   string
	Digest string

	tagIDs map[int64]struct{}
}

// TagCount returns the number of tags attached to the file.
func (f *File) TagCount() int {
	return len(f.tagIDs)
}

// TagIDs returns the keys of the file's tags in ascending order.
func (f *File) TagIDs() []int64 {
	return sortedKeys(f.tagIDs)
}

// Graph is the arena owning every entity, indexed by primary key and by
// the entity's unique natural identity.
type Graph struct {
	groups       map[int64]*TagGroup
	groupsByName map[string]*TagGroup
	tags         map[int64]*Tag
	files        map[int64]*File
	filesByPath  map[string]*File
	filesByHash  map[string]*File
}

// New returns an empty graph.
func New() *Graph {
	g := &Graph{}
	g.Clear()
	return g
}

// Clear drains every entity and index, returning the graph to its empty
// state. Called when the backing store is closed.
func (g *Graph) Clear() {
	g.groups = make(map[int64]*TagGroup)
	g.groupsByName = make(map[string]*TagGroup)
	g.tags = make(map[int64]*Tag)
	g.files = make(map[int64]*File)
	g.filesByPath = make(map[string]*File)
	g.filesByHash = make(map[string]*File)
}

// Group returns the group with the given key, or nil.
func (g *Graph) Group(id int64) *TagGroup {
	return g.groups[id]
}

// GroupByName returns the group with the given name, or nil.
func (g *Graph) GroupByName(name string) *TagGroup {
	return g.groupsByName[name]
}

// Tag returns the tag with the given key, or nil.
func (g *Graph) Tag(id int64) *Tag {
	return g.tags[id]
}

// File returns the file with the given key, or nil.
func (g *Graph) File(id int64) *File {
	return g.files[id]
}

// FileByPath returns the file registered under the given path, or nil.
func (g *Graph) FileByPath(path string) *File {
	return g.filesByPath[path]
}

// FileByDigest returns the file holding the given content digest, or nil.
func (g *Graph) FileByDigest(digest string) *File {
	return g.filesByHash[digest]
}

// Groups returns all groups in ascending key order.
func (g *Graph) Groups() []*TagGroup {
	out := make([]*TagGroup, 0, len(g.groups))
	for _, id := range sortedKeys(g.groups) {
		out = append(out, g.groups[id])
	}
	return out
}

// Tags returns all tags in ascending key order.
func (g *Graph) Tags() []*Tag {
	out := make([]*Tag, 0, len(g.tags))
	for _, id := range sortedKeys(g.tags) {
		out = append(out, g.tags[id])
	}
	return out
}

// Files returns all files in ascending key order.
func (g *Graph) Files() []*File {
	out := make([]*File, 0, len(g.files))
	for _, id := range sortedKeys(g.files) {
		out = append(out, g.files[id])
	}
	return out
}

// TagsIn returns a group's tags in ascending key order.
func (g *Graph) TagsIn(group *TagGroup) []*Tag {
	out := make([]*Tag, 0, len(group.tagIDs))
	for _, id := range sortedKeys(group.tagIDs) {
		if t := g.tags[id]; t != nil {
			out = append(out, t)
		}
	}
	return out
}

// TagsOf returns the tags attached to a file in ascending key order.
func (g *Graph) TagsOf(file *File) []*Tag {
	out := make([]*Tag, 0, len(file.tagIDs))
	for _, id := range sortedKeys(file.tagIDs) {
		if t := g.tags[id]; t != nil {
			out = append(out, t)
		}
	}
	return out
}

// FilesOf returns the files associated with a tag in ascending key order.
func (g *Graph) FilesOf(tag *Tag) []*File {
	out := make([]*File, 0, len(tag.fileIDs))
	for _, id := range sortedKeys(tag.fileIDs) {
		if f := g.files[id]; f != nil {
			out = append(out, f)
		}
	}
	return out
}

// HasFiles reports whether any tag owned by the group is associated with
// at least one file. Gates group deletion in the UI.
func (g *Graph) HasFiles(group *TagGroup) bool {
	for id := range group.tagIDs {
		if t := g.tags[id]; t != nil && len(t.fileIDs) > 0 {
			return true
		}
	}
	return false
}

// OwningGroups returns the distinct groups reachable through a file's
// tags, in ascending key order.
func (g *Graph) OwningGroups(file *File) []*TagGroup {
	seen := make(map[int64]struct{})
	for tagID := range file.tagIDs {
		t := g.tags[tagID]
		if t == nil {
			continue
		}
		seen[t.GroupID] = struct{}{}
	}
	out := make([]*TagGroup, 0, len(seen))
	for _, id := range sortedKeys(seen) {
		if grp := g.groups[id]; grp != nil {
			out = append(out, grp)
		}
	}
	return out
}

// GroupCount returns the number of groups in the graph.
func (g *Graph) GroupCount() int { return len(g.groups) }

// TagCount returns the number of tags in the graph.
func (g *Graph) TagCount() int { return len(g.tags) }

// FileCount returns the number of files in the graph.
func (g *Graph) FileCount() int { return len(g.files) }

// AddGroup inserts a new empty group.
func (g *Graph) AddGroup(id int64, name string) *TagGroup {
	group := &TagGroup{ID: id, Name: name, tagIDs: make(map[int64]struct{})}
	g.groups[id] = group
	g.groupsByName[name] = group
	return group
}

// RemoveGroup detaches a group from the graph. The caller guarantees the
// group owns no tags.
func (g *Graph) RemoveGroup(id int64) {
	group := g.groups[id]
	if group == nil {
		return
	}
	delete(g.groupsByName, group.Name)
	delete(g.groups, id)
}

// RenameGroup updates a group's name and the name index.
func (g *Graph) RenameGroup(id int64, newName string) {
	group := g.groups[id]
	if group == nil {
		return
	}
	delete(g.groupsByName, group.Name)
	group.Name = newName
	g.groupsByName[newName] = group
}

// AddTag inserts a new tag and attaches it to its owning group.
func (g *Graph) AddTag(id int64, name string, groupID int64) *Tag {
	tag := &Tag{ID: id, Name: name, GroupID: groupID, fileIDs: make(map[int64]struct{})}
	g.tags[id] = tag
	if group := g.groups[groupID]; group != nil {
		group.tagIDs[id] = struct{}{}
	}
	return tag
}

// RemoveTag detaches a tag from its group and the graph. The caller
// guarantees the tag has no file associations.
func (g *Graph) RemoveTag(id int64) {
	tag := g.tags[id]
	if tag == nil {
		return
	}
	if group := g.groups[tag.GroupID]; group != nil {
		delete(group.tagIDs, id)
	}
	delete(g.tags, id)
}

// RenameTag updates a tag's name.
func (g *Graph) RenameTag(id int64, newName string) {
	if tag := g.tags[id]; tag != nil {
		tag.Name = newName
	}
}

// AddFile inserts a new file with an empty tag set.
func (g *Graph) AddFile(id int64, path, digest string) *File {
	file := &File{ID: id, Path: path, Digest: digest, tagIDs: make(map[int64]struct{})}
	g.files[id] = file
	g.filesByPath[path] = file
	g.filesByHash[digest] = file
	return file
}

// RemoveFile detaches a file from every tag referencing it, then from the
// graph. Mirrors the store's cascading file delete.
func (g *Graph) RemoveFile(id int64) {
	file := g.files[id]
	if file == nil {
		return
	}
	for tagID := range file.tagIDs {
		if tag := g.tags[tagID]; tag != nil {
			delete(tag.fileIDs, id)
		}
	}
	delete(g.filesByPath, file.Path)
	delete(g.filesByHash, file.Digest)
	delete(g.files, id)
}

// Link records a tag-file association on both endpoints.
func (g *Graph) Link(tagID, fileID int64) {
	tag := g.tags[tagID]
	file := g.files[fileID]
	if tag == nil || file == nil {
		return
	}
	tag.fileIDs[fileID] = struct{}{}
	file.tagIDs[tagID] = struct{}{}
}

// Unlink removes a tag-file association from both endpoints.
func (g *Graph) Unlink(tagID, fileID int64) {
	if tag := g.tags[tagID]; tag != nil {
		delete(tag.fileIDs, fileID)
	}
	if file := g.files[fileID]; file != nil {
		delete(file.tagIDs, tagID)
	}
}

// Linked reports whether the tag-file association is present on both
// endpoints.
func (g *Graph) Linked(tagID, fileID int64) bool {
	tag := g.tags[tagID]
	file := g.files[fileID]
	if tag == nil || file == nil {
		return false
	}
	_, onTag := tag.fileIDs[fileID]
	_, onFile := file.tagIDs[tagID]
	return onTag && onFile
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
