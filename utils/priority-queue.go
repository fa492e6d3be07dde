package utils

type PQI[T any] interface {
	Less(T) bool
}

// Binary min-heap over a slice, ordered by the element's Less.
type PQ[T PQI[T]] []T

func (h PQ[T]) Len() int {
	return len(h)
}

// O(log n).
func (h *PQ[T]) Push(x T) {
	*h = append(*h, x)
	h.up(len(*h) - 1)
}

// Removes and returns the minimum element. The heap must not be empty.
func (h *PQ[T]) Pop() T {
	n := len(*h) - 1
	(*h)[0], (*h)[n] = (*h)[n], (*h)[0]
	h.down(0, n)
	item := (*h)[n]
	*h = (*h)[:n]
	return item
}

func (h PQ[T]) up(j int) {
	for {
		i := (j - 1) / 2 // parent
		if i == j || !h[j].Less(h[i]) {
			break
		}
		h[i], h[j] = h[j], h[i]
		j = i
	}
}

func (h PQ[T]) down(i, n int) {
	for {
		j := 2*i + 1
		if j >= n || j < 0 { // j < 0 after int overflow
			break
		}
		if j2 := j + 1; j2 < n && h[j2].Less(h[j]) {
			j = j2
		}
		if !h[j].Less(h[i]) {
			break
		}
		h[i], h[j] = h[j], h[i]
		i = j
	}
}
