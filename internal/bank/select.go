package bank

import "math/rand/v2"

// SelectSubset draws n questions from bank without replacement: it
// shuffles a copy of the whole bank and keeps the first n. When n is not
// positive or exceeds the bank size the whole shuffled bank is returned.
// The input slice is never modified.
func SelectSubset(bank []Question, n int) []Question {
	return selectSubset(bank, n, rand.Shuffle)
}

func selectSubset(bank []Question, n int, shuffle func(n int, swap func(i, j int))) []Question {
	shuffled := make([]Question, len(bank))
	copy(shuffled, bank)
	shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n <= 0 || n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// Merge concatenates banks in order into a new slice.
func Merge(banks ...[]Question) []Question {
	total := 0
	for _, b := range banks {
		total += len(b)
	}
	out := make([]Question, 0, total)
	for _, b := range banks {
		out = append(out, b...)
	}
	return out
}
