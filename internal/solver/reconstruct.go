package solver

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/wildstyl3r/pbegap/internal/constants"
)

// Fields is the converged solution mapped back to physical units and
// mirrored across the midplane, covering the full gap between the plates.
type Fields struct {
	Z          []float64 // [nm], length 2N
	Phi        []float64 // potential [mV]
	DensCat    []float64 // [nm^-3]
	DensAn     []float64
	DensImpCat []float64
	DensImpAn  []float64

	DebyeLength float64 // [nm]

	// SurfaceCharge is the imposed wall charge and ExcessCharge the
	// trapezoidal integral of net ion charge over the half domain, both in
	// [e nm^-2]. The two should roughly cancel; the residual measures the
	// discretization error, it is reported, not asserted.
	SurfaceCharge float64
	ExcessCharge  float64
}

// Reconstruct maps a converged dimensionless potential back to physical
// units. zz is the half-domain coordinate [nm] matching psi. Pure function:
// calling it twice on the same inputs yields identical fields.
func Reconstruct(zz, psi []float64, p Problem, d Dimensionless) Fields {
	n := len(psi)
	valCat, valAn := float64(p.ValCat), float64(p.ValAn)
	valMax := math.Max(valCat, valAn)
	cCat := d.C0 * valMax / valCat
	cAn := d.C0 * valMax / valAn
	cImp := d.CImp * d.C0 * valMax

	densCat := make([]float64, n)
	densAn := make([]float64, n)
	densImpCat := make([]float64, n)
	densImpAn := make([]float64, n)
	phi := make([]float64, n)
	psiToPhi := 1e3 / (constants.ElementaryCharge * d.Beta * valMax)
	for i := range psi {
		densCat[i] = 1e-27 * cCat * math.Exp(-valCat*psi[i]-p.PMFCat[i])
		densAn[i] = 1e-27 * cAn * math.Exp(valAn*psi[i]-p.PMFAn[i])
		densImpCat[i] = 1e-27 * cImp * math.Exp(-psi[i]-p.PMFImpCat[i])
		densImpAn[i] = 1e-27 * cImp * math.Exp(psi[i]-p.PMFImpAn[i])
		phi[i] = psiToPhi * psi[i]
	}

	// net ion charge over the half domain against the imposed wall charge
	net := make([]float64, n)
	for i := range net {
		net[i] = valCat*densCat[i] - valAn*densAn[i] + densImpCat[i] - densImpAn[i]
	}
	excess := integrate.Trapezoidal(zz, net)
	sigmaUnits := math.Sqrt(constants.FreeSpacePermittivityE0*d.C0) /
		(constants.ElementaryCharge * 1e18 * math.Sqrt(d.Beta))

	zMax := zz[n-1]
	symmZ := make([]float64, 0, 2*n)
	symmZ = append(symmZ, zz...)
	for _, z := range zz {
		symmZ = append(symmZ, z+zMax)
	}

	return Fields{
		Z:             symmZ,
		Phi:           mirror(phi),
		DensCat:       mirror(densCat),
		DensAn:        mirror(densAn),
		DensImpCat:    mirror(densImpCat),
		DensImpAn:     mirror(densImpAn),
		DebyeLength:   1e9 / d.Kappa,
		SurfaceCharge: p.SigmaHat * sigmaUnits,
		ExcessCharge:  excess,
	}
}

// mirror appends the reversed half profile, giving the symmetric full-gap one.
func mirror(half []float64) []float64 {
	full := make([]float64, 0, 2*len(half))
	full = append(full, half...)
	for i := len(half) - 1; i >= 0; i-- {
		full = append(full, half[i])
	}
	return full
}
