package screen

// Viewport returns the half-open range [start, end) of items visible on a
// display with rows rows, for a list of n items with item idx selected.
//
// Lists that fit are shown whole. Longer lists show rows items starting at
// the selection, except that the window stops moving once it reaches the
// end of the list and keeps showing the last rows items.
func Viewport(n, idx, rows int) (start, end int) {
	if n <= 0 || rows <= 0 {
		return 0, 0
	}
	if n <= rows {
		return 0, n
	}
	start = min(max(idx, 0), n-rows)
	return start, start + rows
}
