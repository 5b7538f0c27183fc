package complete

import "unicode"

// naturalLess compares a and b case-insensitively with numeric awareness:
// runs of digits compare by value, so "item2" sorts before "item10".
// It reports (a < b, a == b) under that ordering.
func naturalLess(a, b string) (less, eq bool) {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		ca, cb := ra[i], rb[j]
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			na, ni := takeNumber(ra, i)
			nb, nj := takeNumber(rb, j)
			if na != nb {
				return na < nb, false
			}
			i, j = ni, nj
			continue
		}
		la, lb := unicode.ToLower(ca), unicode.ToLower(cb)
		if la != lb {
			return la < lb, false
		}
		i++
		j++
	}
	if i == len(ra) && j == len(rb) {
		return false, true
	}
	return i == len(ra), false
}

// takeNumber reads the digit run starting at i, returning its value and
// the index just past it. Values are capped rather than overflowed for
// absurdly long digit runs.
func takeNumber(rs []rune, i int) (uint64, int) {
	var n uint64
	for i < len(rs) && unicode.IsDigit(rs[i]) {
		d := uint64(rs[i] - '0')
		if n > (1<<63)/10 {
			n = 1 << 63 // cap; ordering beyond this point is by length anyway
		} else {
			n = n*10 + d
		}
		i++
	}
	return n, i
}
