package cmine

import "sort"

// IndexEntry is what the reconciler needs to know about an existing venture.
type IndexEntry struct {
	ID        int64
	UpdatedAt string
	// StillExists is set once a source record with the same title has been seen.
	StillExists bool
}

// Index maps venture titles (high_level_pitch) to the venture owning them.
// It holds at most one venture per title.
type Index struct {
	entries map[string]*IndexEntry
	// Duplicates counts ventures deleted while building the index.
	Duplicates int
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]*IndexEntry)}
}

// Add registers v under its title. It reports false and leaves the index
// unchanged when the title is already taken.
func (x *Index) Add(v Venture) bool {
	if _, ok := x.entries[v.HighLevelPitch]; ok {
		return false
	}
	x.entries[v.HighLevelPitch] = &IndexEntry{ID: v.ID, UpdatedAt: v.UpdatedAt}
	return true
}

// Lookup returns the entry for title.
func (x *Index) Lookup(title string) (*IndexEntry, bool) {
	e, ok := x.entries[title]
	return e, ok
}

// MarkSeen flags the entry for title as still present in the source.
func (x *Index) MarkSeen(title string) {
	if e, ok := x.entries[title]; ok {
		e.StillExists = true
	}
}

// Len returns the number of indexed titles.
func (x *Index) Len() int {
	return len(x.entries)
}

// Titles returns all indexed titles in sorted order.
func (x *Index) Titles() []string {
	titles := make([]string, 0, len(x.entries))
	for t := range x.entries {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// Orphans returns the sorted titles that were never marked seen.
func (x *Index) Orphans() []string {
	var orphans []string
	for _, t := range x.Titles() {
		if !x.entries[t].StillExists {
			orphans = append(orphans, t)
		}
	}
	return orphans
}
