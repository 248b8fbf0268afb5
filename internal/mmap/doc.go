// Package mmap provides read-only memory-mapped file access.
//
//	m, err := mmap.Open("raw/combined.csv")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// On Unix the file is mapped with mmap(2). On other platforms the file is
// read into memory, which keeps the same API.
package mmap
