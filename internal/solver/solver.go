package solver

import (
	"errors"
	"fmt"
	"math"
)

// ErrMaxSweeps reports that the sweep cap was reached before the RMS
// sweep-to-sweep difference dropped below tolerance. The partial potential is
// returned alongside it, so callers decide between fatal and best-effort.
var ErrMaxSweeps = errors.New("sweep cap reached before convergence")

// Problem is the discretized boundary value problem in dimensionless form.
// Bin 0 is the charged wall, the last bin deep bulk at the midplane. All
// profiles must have the grid length. Eps must not contain zeros: every
// stencil divides by it, which is checked by the loader, not here.
type Problem struct {
	DzHat    float64 // bin width
	SigmaHat float64 // wall surface charge
	ValCat   int
	ValAn    int
	CImp     float64 // impurity concentration relative to bulk

	Eps       []float64 // local inverse relative permittivity
	RhoHat    []float64 // fixed external charge density
	PMFCat    []float64 // cation bias [kT]
	PMFAn     []float64
	PMFImpCat []float64
	PMFImpAn  []float64
}

type Settings struct {
	Omega     float64 // 0 selects DefaultOmega
	Tol       float64 // 0 selects 1e-10
	MaxSweeps int     // 0 runs uncapped
	Trace     func(sweep int, residual float64)
}

type Result struct {
	Psi      []float64
	Sweeps   int
	Residual float64
}

const defaultTol = 1e-10

// DefaultOmega is the asymptotic SOR optimum for this class of elliptic
// problem on an n-bin grid. It stays fixed for the whole run; Chebyshev
// acceleration would adapt it per sweep but is not implemented.
func DefaultOmega(n int) float64 {
	return 2 / (1 + math.Sqrt(math.Pi/float64(n)))
}

// Solve drives the potential to a self-consistent fixed point of the
// discretized nonlinear system by successive over-relaxation. start is the
// initial iterate; the solver works on its own two buffers and never writes
// through any input slice. Within a sweep each interior update reads the
// already-updated neighbor to its left (Gauss-Seidel ordering), so a sweep is
// inherently sequential.
func Solve(p Problem, start []float64, s Settings) (Result, error) {
	n := len(start)
	if err := p.validate(n); err != nil {
		return Result{}, err
	}
	omega := s.Omega
	if omega == 0 {
		omega = DefaultOmega(n)
	}
	tol := s.Tol
	if tol == 0 {
		tol = defaultTol
	}

	psi := make([]float64, n)
	copy(psi, start)
	psiPrev := make([]float64, n)
	copy(psiPrev, psi)

	eps := p.Eps
	dz2 := p.DzHat * p.DzHat
	relErr := tol + 1
	sweeps := 0
	for relErr > tol {
		if s.MaxSweeps > 0 && sweeps == s.MaxSweeps {
			return Result{Psi: psi, Sweeps: sweeps, Residual: relErr},
				fmt.Errorf("after %d sweeps (residual %g): %w", sweeps, relErr, ErrMaxSweeps)
		}

		// wall bin: ghost point eliminated through the constant-field
		// condition the surface charge induces
		psi0 := psi[1] +
			2*p.DzHat*p.SigmaHat*(eps[1]+3*eps[0])/8 +
			p.chargeAt(0, psi[0])*dz2*eps[0]/2
		psi[0] = (1-omega)*psiPrev[0] + omega*psi0

		for i := 1; i < n-1; i++ {
			psiI := psi[i+1]*(-eps[i+1]+4*eps[i]+eps[i-1])/(8*eps[i]) +
				psi[i-1]*(eps[i+1]+4*eps[i]-eps[i-1])/(8*eps[i]) +
				p.chargeAt(i, psi[i])*dz2*eps[i]/2
			psi[i] = (1-omega)*psiPrev[i] + omega*psiI
		}

		// bulk bin: no field deep between the plates
		psiN := psi[n-2] + p.chargeAt(n-1, psi[n-1])*dz2*eps[n-1]/2
		psi[n-1] = (1-omega)*psiPrev[n-1] + omega*psiN

		var sum float64
		for i := range psi {
			d := psi[i] - psiPrev[i]
			sum += d * d
		}
		relErr = math.Sqrt(sum / float64(n-1))
		copy(psiPrev, psi)
		sweeps++
		if s.Trace != nil {
			s.Trace(sweeps, relErr)
		}
	}
	return Result{Psi: psi, Sweeps: sweeps, Residual: relErr}, nil
}

// chargeAt is the local dimensionless charge density: both salt species, the
// fixed external charge and the monovalent impurities. Neutral profiles and
// CImp = 0 reduce it to the plain two-species form.
func (p *Problem) chargeAt(i int, psi float64) float64 {
	return math.Exp(-float64(p.ValCat)*psi-p.PMFCat[i]) -
		math.Exp(float64(p.ValAn)*psi-p.PMFAn[i]) +
		p.RhoHat[i] +
		p.CImp*(math.Exp(-psi-p.PMFImpCat[i])-math.Exp(psi-p.PMFImpAn[i]))
}

func (p *Problem) validate(n int) error {
	if n < 2 {
		return fmt.Errorf("grid must have at least two bins, got %d", n)
	}
	for _, profile := range []struct {
		name string
		data []float64
	}{
		{"eps", p.Eps},
		{"rho_hat", p.RhoHat},
		{"pmf_cat", p.PMFCat},
		{"pmf_an", p.PMFAn},
		{"pmf_imp_cat", p.PMFImpCat},
		{"pmf_imp_an", p.PMFImpAn},
	} {
		if len(profile.data) != n {
			return fmt.Errorf("%s profile length %d does not match grid length %d", profile.name, len(profile.data), n)
		}
	}
	if p.ValCat < 1 || p.ValAn < 1 {
		return fmt.Errorf("ion valencies must be positive, got %d and %d", p.ValCat, p.ValAn)
	}
	return nil
}
