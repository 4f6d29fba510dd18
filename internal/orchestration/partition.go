package orchestration

// Partition splits m trials across w workers. The first m mod w workers
// receive ⌈m/w⌉ trials and the rest ⌊m/w⌋, so the shares differ by at most
// one and always sum to m. It returns nil if w < 1 or m < 0.
func Partition(m, w int) []int {
	if w < 1 || m < 0 {
		return nil
	}
	shares := make([]int, w)
	base, extra := m/w, m%w
	for i := range shares {
		shares[i] = base
		if i < extra {
			shares[i]++
		}
	}
	return shares
}
