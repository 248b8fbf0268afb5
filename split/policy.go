package split

// Sizes returns how many of a class's count rows go to train, dev and test.
//
// For count ≥ 4 train receives ⌈count/3⌉ rows and the remainder r is halved
// with dev getting ⌊r/2⌋ and test ⌈r/2⌉, so an odd remainder gives test the
// extra row.
func Sizes(count int) (train, dev, test int) {
	switch {
	case count <= 0:
		return 0, 0, 0
	case count == 1:
		return 0, 0, 1
	case count == 2:
		return 0, 1, 1
	case count == 3:
		return 1, 1, 1
	}
	train = (count + 2) / 3
	rest := count - train
	dev = rest / 2
	return train, dev, rest - dev
}

// shuffled reports whether a class of the given size is randomized.
func shuffled(count int) bool { return count >= 4 }
