package main

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/wildstyl3r/pbegap/internal/config"
	"github.com/wildstyl3r/pbegap/internal/solver"
	"github.com/wildstyl3r/pbegap/internal/utils"
)

type resultFile struct {
	fileSuffix string
	header     string
	column     string
	data       []float64
}

// writeResults saves the symmetrized profiles as whitespace-delimited
// two-column text files, one per quantity, with a descriptive header.
func writeResults(outputPath, modelName string, parameters config.ModelParameters, fields solver.Fields) error {
	densHeader := "density for bulk concentration c_0 = %.2f mol/l"
	impHeader := "impurity density for concentration c_imp = %.2f nmol/l"
	files := []resultFile{
		{
			fileSuffix: "psi",
			header:     fmt.Sprintf("electrostatic potential for l_debye = %.2f nm", fields.DebyeLength),
			column:     "potential [mV]",
			data:       fields.Phi,
		},
		{
			fileSuffix: "dens_pos",
			header:     "cation " + fmt.Sprintf(densHeader, parameters.C0),
			column:     "density [1/nm^3]",
			data:       fields.DensCat,
		},
		{
			fileSuffix: "dens_neg",
			header:     "anion " + fmt.Sprintf(densHeader, parameters.C0),
			column:     "density [1/nm^3]",
			data:       fields.DensAn,
		},
		{
			fileSuffix: "imp_pos",
			header:     "cation " + fmt.Sprintf(impHeader, parameters.CImp),
			column:     "density [1/nm^3]",
			data:       fields.DensImpCat,
		},
		{
			fileSuffix: "imp_neg",
			header:     "anion " + fmt.Sprintf(impHeader, parameters.CImp),
			column:     "density [1/nm^3]",
			data:       fields.DensImpAn,
		},
	}
	for _, f := range files {
		if err := writeColumns(outputPath, modelName, parameters.MakeDir, f, fields.Z); err != nil {
			return err
		}
	}
	return nil
}

func writeColumns(outputPath, modelName string, makeDir bool, f resultFile, z []float64) error {
	file, err := utils.OpenFile(makeDir, outputPath, modelName, f.fileSuffix)
	if err != nil {
		return fmt.Errorf("unable to save %s: %w", f.fileSuffix, err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# %s\n# col 1: z-distance [nm]\n# col 2: %s\n", f.header, f.column)

	w := csv.NewWriter(file)
	w.Comma = ' '
	rows := make([][]string, 0, len(z))
	for i := range z {
		rows = append(rows, []string{
			strconv.FormatFloat(z[i], 'f', -1, 64),
			strconv.FormatFloat(f.data[i], 'e', -1, 64),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("error writing %s: %w", f.fileSuffix, err)
	}
	return nil
}
