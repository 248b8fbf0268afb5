package hash

// SplitMix64 is the finalizer of the SplitMix64 generator. It is a bijection
// on uint64 with full avalanche.
func SplitMix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// SubStream derives two independent 64-bit seeds for the stream identified
// by (seed, key). Equal inputs always produce equal outputs, on every
// platform and in every process.
func SubStream(seed int64, key uint64) (uint64, uint64) {
	a := SplitMix64(uint64(seed))
	b := SplitMix64(a ^ SplitMix64(key))
	return b, SplitMix64(b ^ key)
}
