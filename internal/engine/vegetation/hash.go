package vegetation

import "math/rand/v2"

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// cellHash returns a stable hash of a grid cell and salt. Large odd
// constants decorrelate the axes.
func cellHash(gridX, gridZ, salt int64) uint64 {
	h := mix64(uint64(salt))
	h ^= uint64(gridX) * 0x9e3779b97f4a7c15
	h = mix64(h)
	h ^= uint64(gridZ) * 0xc2b2ae3d27d4eb4f
	return mix64(h)
}

// cellStream returns the deterministic random stream of one cell.
func cellStream(gridX, gridZ, salt int64) *rand.Rand {
	seed := cellHash(gridX, gridZ, salt)
	return rand.New(rand.NewPCG(seed, mix64(seed^0x6a09e667f3bcc909)))
}
