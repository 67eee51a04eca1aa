package domain

import "sort"

// Selection is the operator-chosen set of channel IDs to monitor. It is an
// immutable snapshot: the monitoring loop reads one consistent copy per
// filtering decision while the control task installs replacements.
type Selection struct {
	ids map[int64]struct{}
}

// NewSelection builds a Selection from a list of IDs. Duplicates collapse.
func NewSelection(ids []int64) *Selection {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &Selection{ids: set}
}

// EmptySelection returns a selection with no members.
func EmptySelection() *Selection {
	return &Selection{ids: map[int64]struct{}{}}
}

// Contains reports whether the channel ID is selected.
func (s *Selection) Contains(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the members in ascending order.
func (s *Selection) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of selected channels.
func (s *Selection) Len() int {
	return len(s.ids)
}
