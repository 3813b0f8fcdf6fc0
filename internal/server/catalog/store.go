package catalog

import (
	"slices"
	"sort"
)

// Store serves a fixed catalog and is safe for concurrent reads. Lists come
// back as fresh slices so callers may reorder them freely.
type Store struct {
	outreaches []Outreach
	ministries []Ministry
	media      []MediaItem
}

func NewStore(s Seed) *Store {
	media := slices.Clone(s.Media)
	// newest first
	sort.SliceStable(media, func(i, j int) bool { return media[i].PublishedAt > media[j].PublishedAt })

	return &Store{
		outreaches: slices.Clone(s.Outreaches),
		ministries: slices.Clone(s.Ministries),
		media:      media,
	}
}

func (s *Store) Outreaches() []Outreach {
	return slices.Clone(s.outreaches)
}

func (s *Store) Ministries() []Ministry {
	return slices.Clone(s.ministries)
}

func (s *Store) Media() []MediaItem {
	return slices.Clone(s.media)
}

// HasOutreach reports whether id names a known campus.
func (s *Store) HasOutreach(id int64) bool {
	return slices.ContainsFunc(s.outreaches, func(o Outreach) bool { return o.ID == id })
}
