package milp

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// IntSet is an unordered set of row or column indices.
// Iteration order is never relied upon: use Sorted whenever a stable order is required.
type IntSet map[int]struct{}

func NewIntSet(items ...int) IntSet {
	s := make(IntSet, len(items))
	for _, i := range items {
		s[i] = struct{}{}
	}
	return s
}

func (s IntSet) Add(items ...int) {
	for _, i := range items {
		s[i] = struct{}{}
	}
}

func (s IntSet) AddAll(o IntSet) {
	for i := range o {
		s[i] = struct{}{}
	}
}

func (s IntSet) Has(i int) bool {
	_, ok := s[i]
	return ok
}

func (s IntSet) Len() int { return len(s) }

func (s IntSet) Clone() IntSet {
	c := make(IntSet, len(s))
	c.AddAll(s)
	return c
}

// Union returns a new set holding the members of both sets.
func (s IntSet) Union(o IntSet) IntSet {
	u := s.Clone()
	u.AddAll(o)
	return u
}

// Intersect returns a new set holding the members present in both sets.
func (s IntSet) Intersect(o IntSet) IntSet {
	small, large := s, o
	if len(large) < len(small) {
		small, large = large, small
	}
	r := make(IntSet)
	for i := range small {
		if large.Has(i) {
			r[i] = struct{}{}
		}
	}
	return r
}

// Difference returns a new set holding the members of s that are not in o.
func (s IntSet) Difference(o IntSet) IntSet {
	r := make(IntSet)
	for i := range s {
		if !o.Has(i) {
			r[i] = struct{}{}
		}
	}
	return r
}

func (s IntSet) Equal(o IntSet) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !o.Has(i) {
			return false
		}
	}
	return true
}

// Sorted returns the members in ascending order.
func (s IntSet) Sorted() []int {
	keys := lo.Keys(map[int]struct{}(s))
	slices.Sort(keys)
	return keys
}

func (s IntSet) String() string {
	parts := lo.Map(s.Sorted(), func(i int, _ int) string {
		return fmt.Sprint(i)
	})
	return "{" + strings.Join(parts, ", ") + "}"
}
