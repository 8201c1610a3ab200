package core

// Float is the set of sample types the engine can process in.
type Float interface {
	~float32 | ~float64
}

// EnsureLen returns buf resliced to n, or a fresh zeroed slice when buf is
// too small. Contents are not preserved across a reallocation.
func EnsureLen[F Float](buf []F, n int) []F {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]F, n)
}

// Zero sets all values in buf to 0.
func Zero[F Float](buf []F) { clear(buf) }

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto[F Float](dst, src []F) int {
	return copy(dst, src)
}

// ConvertInto copies src into dst with precision conversion and returns the
// number of converted elements.
func ConvertInto[D, S Float](dst []D, src []S) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = D(src[i])
	}
	return n
}
