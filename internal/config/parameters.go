package config

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/wildstyl3r/pbegap/internal/utils"
)

// ModelParameters describes one solve: the physical system between the plates
// plus the six profile sources. A profile source holds either a numeric
// literal, setting the value over the entire domain, or a path to a profile
// file with the same length as the discretization vector.
type ModelParameters struct {
	Distance    float64 // plate separation [nm]
	Bins        int     // discretization bins over the half domain
	Sigma       float64 // wall surface charge [e nm^-2]
	Valency     []int   // [cation] or [cation, anion]
	C0          float64 // bulk concentration [mol l^-1]
	CImp        float64 // impurity concentration [nmol l^-1]
	Temperature float64 // [K]

	Epsilon      string // inverse dielectric profile
	Rho          string // external charge density [e m^-3]
	PMFCation    string // [kT]
	PMFAnion     string // [kT]
	PMFImpCation string // [kT], impurity counter ions
	PMFImpAnion  string // [kT], impurity co-ions

	Omega     float64 // SOR relaxation factor, 0 selects 2/(1+sqrt(pi/Bins))
	Tolerance float64 // RMS sweep-to-sweep difference to stop at
	MaxSweeps int     // 0 runs uncapped, as a diverging sweep never terminates
	MakeDir   bool
}

type Config struct {
	OutputDir string
	Models    map[string]ModelParameters
}

// Load decodes configFileName+".toml" and fills absent model fields with the
// defaults of the command line tool this solver descends from.
func Load(configFileName string) (Config, error) {
	var config Config
	meta, err := toml.DecodeFile(configFileName+".toml", &config)
	if err != nil {
		return Config{}, err
	}
	if len(config.Models) == 0 {
		return Config{}, fmt.Errorf("no models provided in %s.toml", configFileName)
	}

	for modelName, parameters := range config.Models {
		if !meta.IsDefined("Models", modelName, "Distance") {
			parameters.Distance = 1
		}
		if !meta.IsDefined("Models", modelName, "Bins") {
			parameters.Bins = 100
		}
		if !meta.IsDefined("Models", modelName, "Valency") {
			parameters.Valency = []int{1}
		}
		if !meta.IsDefined("Models", modelName, "C0") {
			parameters.C0 = 1
		}
		if !meta.IsDefined("Models", modelName, "Temperature") {
			parameters.Temperature = 300
		}
		if !meta.IsDefined("Models", modelName, "Epsilon") {
			parameters.Epsilon = "0.0125" // 1/80, uniform water
		}
		if !meta.IsDefined("Models", modelName, "Tolerance") {
			parameters.Tolerance = 1e-10
		}
		config.Models[modelName] = parameters
	}
	return config, nil
}

func (m *ModelParameters) Validate() error {
	if m.Bins < 2 {
		return fmt.Errorf("at least two bins are required, got %d", m.Bins)
	}
	if m.Distance <= 0 {
		return fmt.Errorf("plate separation must be positive, got %g", m.Distance)
	}
	if m.C0 <= 0 {
		return fmt.Errorf("bulk concentration must be positive, got %g", m.C0)
	}
	if m.Temperature <= 0 {
		return fmt.Errorf("temperature must be positive, got %g", m.Temperature)
	}
	if len(m.Valency) == 0 || len(m.Valency) > 2 {
		return fmt.Errorf("valency list can only have entries [cation] or [cation, anion], got %d entries", len(m.Valency))
	}
	for _, v := range m.Valency {
		if v < 1 {
			return fmt.Errorf("ion valencies must be positive, got %d", v)
		}
	}
	if m.Omega != 0 && (m.Omega <= 0 || m.Omega >= 2) {
		return fmt.Errorf("relaxation factor must lie in (0, 2), got %g", m.Omega)
	}
	if m.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative, got %g", m.Tolerance)
	}
	if m.MaxSweeps < 0 {
		return fmt.Errorf("sweep cap must not be negative, got %d", m.MaxSweeps)
	}
	return nil
}

func (m *ModelParameters) ValCation() int {
	return m.Valency[0]
}

func (m *ModelParameters) ValAnion() int {
	if len(m.Valency) == 2 {
		return m.Valency[1]
	}
	return m.Valency[0]
}

// ValMax is the valency used to normalize the rescaling.
func (m *ModelParameters) ValMax() int {
	return max(m.ValCation(), m.ValAnion())
}

// Profiles are the resolved per-bin inputs of a solve, each of length Bins.
type Profiles struct {
	Eps          []float64
	Rho          []float64
	PMFCation    []float64
	PMFAnion     []float64
	PMFImpCation []float64
	PMFImpAnion  []float64
}

// LoadProfiles resolves the six profile sources. Sources left empty fall back
// to a flat profile: 1 for epsilon (the literal "0.0125" default of Load is
// only applied to fully absent models), 0 for everything else.
func (m *ModelParameters) LoadProfiles() (Profiles, error) {
	sources := []struct {
		name string
		src  string
		def  float64
	}{
		{"epsilon", m.Epsilon, 1},
		{"rho", m.Rho, 0},
		{"pmf_cation", m.PMFCation, 0},
		{"pmf_anion", m.PMFAnion, 0},
		{"pmf_imp_cation", m.PMFImpCation, 0},
		{"pmf_imp_anion", m.PMFImpAnion, 0},
	}
	var resolved [6][]float64
	for i, s := range sources {
		dat, err := resolveProfile(s.src, m.Bins, s.def)
		if err != nil {
			return Profiles{}, fmt.Errorf("%s: %w", s.name, err)
		}
		resolved[i] = dat
	}
	p := Profiles{
		Eps:          resolved[0],
		Rho:          resolved[1],
		PMFCation:    resolved[2],
		PMFAnion:     resolved[3],
		PMFImpCation: resolved[4],
		PMFImpAnion:  resolved[5],
	}
	for i, e := range p.Eps {
		if e == 0 {
			return Profiles{}, fmt.Errorf("epsilon profile must not contain zeros (bin %d)", i)
		}
	}
	return p, nil
}

func resolveProfile(src string, bins int, def float64) ([]float64, error) {
	if src == "" {
		return flat(def, bins), nil
	}
	if v, err := strconv.ParseFloat(src, 64); err == nil {
		return flat(v, bins), nil
	}
	dat, err := utils.ReadProfile(src)
	if err != nil {
		return nil, err
	}
	if len(dat) != bins {
		return nil, fmt.Errorf("supplied profile does not have the same length as discretization vector: got %d, want %d", len(dat), bins)
	}
	return dat, nil
}

func flat(v float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}
