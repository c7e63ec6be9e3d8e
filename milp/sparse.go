package milp

import (
	"math"
	"sort"
)

// SparseVector holds (index, value) pairs ordered by index.
// Zero values are never stored.
type SparseVector struct {
	indices []int
	values  []float64
}

func NewSparseVector() *SparseVector {
	return &SparseVector{}
}

// NumElements returns the number of stored nonzero entries.
func (v *SparseVector) NumElements() int { return len(v.indices) }

// IndexAt returns the index stored at position pos.
func (v *SparseVector) IndexAt(pos int) int { return v.indices[pos] }

// ValueAt returns the value stored at position pos.
func (v *SparseVector) ValueAt(pos int) float64 { return v.values[pos] }

// Indices returns a copy of the stored indices in position order.
func (v *SparseVector) Indices() []int {
	out := make([]int, len(v.indices))
	copy(out, v.indices)
	return out
}

func (v *SparseVector) search(index int) (int, bool) {
	pos := sort.SearchInts(v.indices, index)
	return pos, pos < len(v.indices) && v.indices[pos] == index
}

// At returns the value for index, or 0 when the entry is absent.
func (v *SparseVector) At(index int) float64 {
	if pos, ok := v.search(index); ok {
		return v.values[pos]
	}
	return 0
}

// Set stores value at index. Setting a zero removes the entry.
func (v *SparseVector) Set(index int, value float64) {
	pos, ok := v.search(index)
	switch {
	case ok && value == 0:
		v.indices = append(v.indices[:pos], v.indices[pos+1:]...)
		v.values = append(v.values[:pos], v.values[pos+1:]...)
	case ok:
		v.values[pos] = value
	case value != 0:
		v.indices = append(v.indices, 0)
		v.values = append(v.values, 0)
		copy(v.indices[pos+1:], v.indices[pos:])
		copy(v.values[pos+1:], v.values[pos:])
		v.indices[pos] = index
		v.values[pos] = value
	}
}

// Dot returns the inner product with a dense vector indexed like the sparse indices.
func (v *SparseVector) Dot(x []float64) float64 {
	var sum float64
	for pos, i := range v.indices {
		sum += v.values[pos] * x[i]
	}
	return sum
}

func (v *SparseVector) Clone() *SparseVector {
	c := &SparseVector{
		indices: make([]int, len(v.indices)),
		values:  make([]float64, len(v.values)),
	}
	copy(c.indices, v.indices)
	copy(c.values, v.values)
	return c
}

// SparseMatrix is a row-wise sparse matrix keyed on the row and column indices
// of the problem it was cut from, with per-row bounds.
type SparseMatrix struct {
	rows    map[int]*SparseVector
	colRows map[int]IntSet
	lower   map[int]float64
	upper   map[int]float64
}

func NewSparseMatrix() *SparseMatrix {
	return &SparseMatrix{
		rows:    make(map[int]*SparseVector),
		colRows: make(map[int]IntSet),
		lower:   make(map[int]float64),
		upper:   make(map[int]float64),
	}
}

func (m *SparseMatrix) SetCoefficient(row, col int, value float64) {
	r, ok := m.rows[row]
	if !ok {
		if value == 0 {
			return
		}
		r = NewSparseVector()
		m.rows[row] = r
	}
	r.Set(col, value)

	if value == 0 {
		if rs, ok := m.colRows[col]; ok {
			delete(rs, row)
			if len(rs) == 0 {
				delete(m.colRows, col)
			}
		}
		if r.NumElements() == 0 {
			delete(m.rows, row)
		}
		return
	}
	rs, ok := m.colRows[col]
	if !ok {
		rs = make(IntSet)
		m.colRows[col] = rs
	}
	rs.Add(row)
}

// Coefficient returns the entry at (row, col), or 0 when absent.
func (m *SparseMatrix) Coefficient(row, col int) float64 {
	if r, ok := m.rows[row]; ok {
		return r.At(col)
	}
	return 0
}

// Row returns the stored row, or nil when the row has no nonzero entries.
func (m *SparseMatrix) Row(i int) *SparseVector {
	return m.rows[i]
}

func (m *SparseMatrix) SetRowBounds(row int, lower, upper float64) {
	m.lower[row] = lower
	m.upper[row] = upper
}

// RowUpperBound returns +Inf for rows without a recorded bound.
func (m *SparseMatrix) RowUpperBound(row int) float64 {
	if u, ok := m.upper[row]; ok {
		return u
	}
	return math.Inf(1)
}

// RowLowerBound returns -Inf for rows without a recorded bound.
func (m *SparseMatrix) RowLowerBound(row int) float64 {
	if l, ok := m.lower[row]; ok {
		return l
	}
	return math.Inf(-1)
}

// NonzeroRows returns the rows holding at least one entry, ascending.
func (m *SparseMatrix) NonzeroRows() []int {
	rows := make([]int, 0, len(m.rows))
	for r := range m.rows {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	return rows
}

// NonzeroCols returns the columns holding at least one entry, ascending.
func (m *SparseMatrix) NonzeroCols() []int {
	cols := make([]int, 0, len(m.colRows))
	for c := range m.colRows {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

func (m *SparseMatrix) NumNonzero() int {
	n := 0
	for _, r := range m.rows {
		n += r.NumElements()
	}
	return n
}
