package components

// move steps the cursor by dir (±1) from i across n items, skipping the ones
// skip reports. It stays put when there is nowhere to go.
func move(i, dir, n int, skip func(int) bool) int {
	for j := i + dir; j >= 0 && j < n; j += dir {
		if skip == nil || !skip(j) {
			return j
		}
	}
	return i
}

// digit maps "1".."9" to an index below n.
func digit(key string, n int) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	i := int(key[0] - '1')
	return i, i < n
}
