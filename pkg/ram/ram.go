package ram

import (
	"intcode/pkg/types"
)

// PageSize is the number of words held by one page (4 KiB of int64 cells).
const PageSize = (1 << 9)

type page [PageSize]types.ProgramElement

// RAM represents the memory of a machine. Pages are created on first write;
// reads from a missing page return zero.
type RAM struct {
	pages map[uint64]*page // Page number -> page content
	size  types.Address    // one past the highest address ever written
}

//
// RAM Creation & Initialization
//

// NewEmptyRAM creates a RAM with no allocated pages
func NewEmptyRAM() *RAM {
	return &RAM{
		pages: make(map[uint64]*page),
	}
}

// NewRAM creates a RAM holding the given words from address 0
func NewRAM(words []types.ProgramElement) *RAM {
	r := NewEmptyRAM()
	r.MutateRange(0, words)
	return r
}

// Clone returns a deep copy; no page is shared with the receiver.
func (r *RAM) Clone() *RAM {
	clone := &RAM{
		pages: make(map[uint64]*page, len(r.pages)),
		size:  r.size,
	}
	for pageNum, p := range r.pages {
		copied := *p
		clone.pages[pageNum] = &copied
	}
	return clone
}

//
// Memory access and mutation methods
//

// getPageAndOffset converts an absolute address to page number and offset
func (r *RAM) getPageAndOffset(index types.Address) (pageNum uint64, offset uint64) {
	pageNum = uint64(index / PageSize)
	offset = uint64(index % PageSize)
	return
}

// getOrCreatePage returns the page at the given page number, creating it if it doesn't exist
func (r *RAM) getOrCreatePage(pageNum uint64) *page {
	p, exists := r.pages[pageNum]
	if !exists {
		p = new(page)
		r.pages[pageNum] = p
	}
	return p
}

// Inspect returns the word at the given address
func (r *RAM) Inspect(index types.Address) types.ProgramElement {
	pageNum, offset := r.getPageAndOffset(index)
	p, exists := r.pages[pageNum]
	if !exists {
		return 0 // Unallocated memory reads as zero
	}
	return p[offset]
}

// InspectRange returns length words starting at start
func (r *RAM) InspectRange(start types.Address, length uint64) []types.ProgramElement {
	result := make([]types.ProgramElement, 0, length)
	for i := uint64(0); i < length; i++ {
		result = append(result, r.Inspect(start+types.Address(i)))
	}
	return result
}

// Mutate changes the word at the given address
func (r *RAM) Mutate(index types.Address, value types.ProgramElement) {
	pageNum, offset := r.getPageAndOffset(index)
	r.getOrCreatePage(pageNum)[offset] = value
	if index >= r.size {
		r.size = index + 1
	}
}

// MutateRange writes consecutive words starting at start
func (r *RAM) MutateRange(start types.Address, values []types.ProgramElement) {
	for i, value := range values {
		r.Mutate(start+types.Address(i), value)
	}
}

//
// Introspection
//

// PageCount returns the number of allocated pages
func (r *RAM) PageCount() int {
	return len(r.pages)
}

// Size returns one past the highest address ever written
func (r *RAM) Size() types.Address {
	return r.size
}

// Snapshot returns a dense copy of addresses [0, Size())
func (r *RAM) Snapshot() []types.ProgramElement {
	return r.InspectRange(0, uint64(r.size))
}
