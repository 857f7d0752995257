package solver

import (
	"math"

	"github.com/wildstyl3r/pbegap/internal/utils"
)

// GouyChapman seeds the relaxation with the linearized solution near a single
// charged plane. It is a warm start, not an exact solution: its accuracy only
// affects the sweep count, the relaxation has to converge from any iterate.
func GouyChapman(d Dimensionless, eps []float64) []float64 {
	epsAvg := 1 / utils.Average(eps)
	psi := make([]float64, len(d.ZZHat))
	for i := range psi {
		psi[i] = d.SigmaHat / epsAvg * math.Exp(-d.ZZHat[i])
	}
	return psi
}
