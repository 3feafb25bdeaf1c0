package registry

import "slices"

// indexSet is an insertion-ordered set of slot indices.
type indexSet struct {
	order  []int
	member map[int]struct{}
}

func newIndexSet() *indexSet {
	return &indexSet{member: make(map[int]struct{})}
}

func (s *indexSet) add(i int) bool {
	if _, ok := s.member[i]; ok {
		return false
	}
	s.member[i] = struct{}{}
	s.order = append(s.order, i)
	return true
}

func (s *indexSet) remove(i int) bool {
	if _, ok := s.member[i]; !ok {
		return false
	}
	delete(s.member, i)
	if at := slices.Index(s.order, i); at >= 0 {
		s.order = slices.Delete(s.order, at, at+1)
	}
	return true
}

func (s *indexSet) has(i int) bool {
	_, ok := s.member[i]
	return ok
}

func (s *indexSet) len() int {
	return len(s.order)
}

// items returns a copy of the members in insertion order.
func (s *indexSet) items() []int {
	return slices.Clone(s.order)
}

// retain keeps only the members keep reports true for, preserving order.
func (s *indexSet) retain(keep func(int) bool) {
	s.order = slices.DeleteFunc(s.order, func(i int) bool {
		if keep(i) {
			return false
		}
		delete(s.member, i)
		return true
	})
}

func (s *indexSet) clear() {
	s.order = nil
	clear(s.member)
}
