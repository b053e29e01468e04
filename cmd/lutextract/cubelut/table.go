package cubelut

const (
	tableLen = 1 << 24
	// cells carry this bit once written, so the zero value means unset
	setBit = uint32(1) << 24
)

// Table is the dense 256x256x256 color mapping, stored flat at
// r*65536 + g*256 + b.
type Table struct {
	cells []uint32
}

// NewTable allocates an empty table with every cell unset.
func NewTable() *Table {
	return &Table{cells: make([]uint32, tableLen)}
}

func tableIndex(r, g, b uint8) int {
	return int(r)<<16 | int(g)<<8 | int(b)
}

// Set records out as the mapped color of in.
func (t *Table) Set(in, out RGB) {
	t.cells[tableIndex(in.R, in.G, in.B)] = setBit | uint32(out.R)<<16 | uint32(out.G)<<8 | uint32(out.B)
}

// Lookup returns the mapped color of in and whether it was ever set.
func (t *Table) Lookup(in RGB) (RGB, bool) {
	c := t.cells[tableIndex(in.R, in.G, in.B)]
	if c&setBit == 0 {
		return RGB{}, false
	}
	return RGB{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c)}, true
}

// Coverage counts the cells that hold a mapping.
func (t *Table) Coverage() int {
	n := 0
	for _, c := range t.cells {
		if c&setBit != 0 {
			n++
		}
	}
	return n
}

// Complete reports whether every color of the cube is mapped.
func (t *Table) Complete() bool {
	return t.Coverage() == tableLen
}

// Equal reports whether both tables hold the same mappings, unset cells included.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	for i := range t.cells {
		if t.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}
