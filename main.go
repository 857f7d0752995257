package main

import (
	"flag"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/facette/natsort"
	"github.com/sirupsen/logrus"

	"github.com/wildstyl3r/pbegap/internal/config"
	"github.com/wildstyl3r/pbegap/internal/solver"
	"github.com/wildstyl3r/pbegap/internal/utils"
)

type solveOutcome struct {
	fields  solver.Fields
	sweeps  int
	elapsed time.Duration
	err     error
}

func main() {
	var configFileNamePointer = flag.String("input", "water_gap", "model configuration in toml format")
	var verbose = flag.Bool("v", false, "verbose mode, residual norm of every sweep is logged")
	var savePlots = flag.Bool("plot", false, "render potential and density profiles to png")
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	startTime := time.Now()

	configFileName := strings.TrimSuffix(*configFileNamePointer, ".toml")
	cfg, err := config.Load(configFileName)
	if err != nil {
		log.Fatal(err)
	}

	outputPath := ""
	if cfg.OutputDir != "" && cfg.OutputDir != "." {
		os.MkdirAll(cfg.OutputDir, 0750)
		outputPath = cfg.OutputDir
	}

	modelNames := make([]string, 0, len(cfg.Models))
	for name := range cfg.Models {
		modelNames = append(modelNames, name)
	}
	sort.Slice(modelNames, func(i, j int) bool {
		return natsort.Compare(modelNames[i], modelNames[j])
	})

	// models are independent solves; a single solve stays sequential
	outcomes := make(map[string]*solveOutcome, len(modelNames))
	var wg sync.WaitGroup
	for _, modelName := range modelNames {
		outcome := &solveOutcome{}
		outcomes[modelName] = outcome
		wg.Add(1)
		go func(name string, parameters config.ModelParameters) {
			defer wg.Done()
			modelStart := time.Now()
			outcome.fields, outcome.sweeps, outcome.err = runModel(name, parameters, log)
			outcome.elapsed = time.Since(modelStart)
		}(modelName, cfg.Models[modelName])
	}
	wg.Wait()

	for _, modelName := range modelNames {
		outcome := outcomes[modelName]
		parameters := cfg.Models[modelName]
		if outcome.err != nil {
			log.Errorf("%s: %v", modelName, outcome.err)
			continue
		}
		log.Infof("%s: converged after %d sweeps in %v", modelName, outcome.sweeps, outcome.elapsed)
		log.Infof("%s: surface charge %.5f e/nm^2, excess system charge %.5f e/nm^2",
			modelName, outcome.fields.SurfaceCharge, outcome.fields.ExcessCharge)
		if err := writeResults(outputPath, modelName, parameters, outcome.fields); err != nil {
			log.Errorf("%s: %v", modelName, err)
			continue
		}
		if *savePlots {
			if err := writePlot(outputPath, modelName, parameters.MakeDir, outcome.fields); err != nil {
				log.Errorf("%s: unable to render plot: %v", modelName, err)
			}
		}
	}
	log.Infof("elapsed time: %v", time.Since(startTime))
}

// runModel takes one named parameter set through the whole chain: validation,
// profile resolution, rescaling, warm start, relaxation, reconstruction.
func runModel(name string, parameters config.ModelParameters, log *logrus.Logger) (solver.Fields, int, error) {
	if err := parameters.Validate(); err != nil {
		return solver.Fields{}, 0, err
	}
	profiles, err := parameters.LoadProfiles()
	if err != nil {
		return solver.Fields{}, 0, err
	}

	dimless := solver.Rescale(parameters.Bins, parameters.Temperature, parameters.Distance,
		parameters.Sigma, profiles.Rho, parameters.ValMax(), parameters.C0, parameters.CImp)

	problem := solver.Problem{
		DzHat:     dimless.DzHat,
		SigmaHat:  dimless.SigmaHat,
		ValCat:    parameters.ValCation(),
		ValAn:     parameters.ValAnion(),
		CImp:      dimless.CImp,
		Eps:       profiles.Eps,
		RhoHat:    dimless.RhoHat,
		PMFCat:    profiles.PMFCation,
		PMFAn:     profiles.PMFAnion,
		PMFImpCat: profiles.PMFImpCation,
		PMFImpAn:  profiles.PMFImpAnion,
	}
	result, err := solver.Solve(problem, solver.GouyChapman(dimless, profiles.Eps), solver.Settings{
		Omega:     parameters.Omega,
		Tol:       parameters.Tolerance,
		MaxSweeps: parameters.MaxSweeps,
		Trace: func(sweep int, residual float64) {
			log.Debugf("%s: sweep %d residual %g", name, sweep, residual)
		},
	})
	if err != nil {
		return solver.Fields{}, result.Sweeps, err
	}

	zz := utils.Linspace(0, parameters.Distance/2, parameters.Bins)
	return solver.Reconstruct(zz, result.Psi, problem, dimless), result.Sweeps, nil
}
