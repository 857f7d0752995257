package utils

import (
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Float | constraints.Integer
}

func Average[T Number](s []T) (mean float64) {
	for i := range s {
		mean += float64(s[i])
	}
	mean /= float64(len(s))
	return
}

// Linspace samples [start, stop] at n evenly spaced points, both ends included.
func Linspace(start, stop float64, n int) []float64 {
	s := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range s {
		s[i] = start + float64(i)*step
	}
	return s
}
