// Package hash provides checksums for artifact integrity and the seed
// mixing used to derive per-class random streams.
//
// # CRC32-Castagnoli
//
// Artifact checksums use CRC32C, the polynomial S3 supports natively:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
//
// # Sub-streams
//
// SubStream maps (seed, key) to a pair of PCG seeds. Each class draws from
// its own stream, so the shuffle of one class never depends on how many
// values another class consumed or in which order classes were processed.
package hash
