package solver

import (
	"math"

	"github.com/wildstyl3r/pbegap/internal/constants"
	"github.com/wildstyl3r/pbegap/internal/utils"
)

// Dimensionless holds the rescaled quantities the relaxation loop works on.
// Lengths are scaled by the modified inverse Debye length Kappa and the
// potential by the thermal voltage of the highest-valency ion.
type Dimensionless struct {
	ZZHat    []float64 // rescaled coordinates over the half domain
	DzHat    float64   // rescaled bin width
	Kappa    float64   // modified inverse Debye length [m^-1]
	Beta     float64   // thermodynamic beta [J^-1]
	C0       float64   // bulk concentration [m^-3]
	CImp     float64   // impurity concentration relative to bulk
	SigmaHat float64   // rescaled wall surface charge
	RhoHat   []float64 // rescaled external charge density
}

// Rescale converts the physical inputs to the dimensionless system. dist is
// the plate separation [nm], sigma the wall charge [e nm^-2], rho an external
// charge density profile [e m^-3], c0 the bulk concentration [mol l^-1] and
// cImp the impurity concentration [nmol l^-1]. Pure function of its inputs.
func Rescale(bins int, temp, dist, sigma float64, rho []float64, valMax int, c0, cImp float64) Dimensionless {
	beta := 1 / (constants.KBolzmann * temp)
	c0 = constants.Avogadro * c0 * 1e3
	cImp = constants.Avogadro * cImp * 1e-6 / (c0 * float64(valMax))
	sigmaSI := sigma * constants.ElementaryCharge / (constants.NmToM * constants.NmToM)

	// the actual Debye parameter would be sqrt(2/eps)*kappa
	kappa := constants.ElementaryCharge * float64(valMax) *
		math.Sqrt(beta*c0/constants.FreeSpacePermittivityE0)

	zzHat := utils.Linspace(0, dist/2, bins)
	for i := range zzHat {
		zzHat[i] *= constants.NmToM * kappa
	}
	rhoHat := make([]float64, len(rho))
	for i := range rho {
		rhoHat[i] = rho[i] / (c0 * float64(valMax))
	}

	return Dimensionless{
		ZZHat:    zzHat,
		DzHat:    zzHat[1] - zzHat[0],
		Kappa:    kappa,
		Beta:     beta,
		C0:       c0,
		CImp:     cImp,
		SigmaHat: sigmaSI * math.Sqrt(beta) / math.Sqrt(constants.FreeSpacePermittivityE0*c0),
		RhoHat:   rhoHat,
	}
}
