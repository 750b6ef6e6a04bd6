package engine

// Board is the fixed ring of tiles. Tile 0 is START.
type Board struct {
	Tiles []Tile
}

// Len returns the number of tiles.
func (b Board) Len() int { return len(b.Tiles) }

// Wrap maps any integer position onto the board.
func (b Board) Wrap(pos int) int {
	n := b.Len()
	if n == 0 {
		return 0
	}
	return ((pos % n) + n) % n
}

// Tile returns the tile at pos, wrapping modulo the board length.
func (b Board) Tile(pos int) Tile {
	return b.Tiles[b.Wrap(pos)]
}

// Step moves one tile forward from pos. passedStart is true when the step
// lands on START from anywhere other than START itself.
func (b Board) Step(pos int) (next int, passedStart bool) {
	next = b.Wrap(pos + 1)
	return next, pos != 0 && next == 0
}
