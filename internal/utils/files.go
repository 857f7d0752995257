package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadProfile reads a per-bin profile from a whitespace-delimited text file.
// Lines starting with '#' or '@' are comments. A row carries either a single
// value or a coordinate-value pair; only the value column is kept.
func ReadProfile(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	var result []float64

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "@") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) > 2 {
			return nil, fmt.Errorf("invalid format in line: %q - expected 1 or 2 numbers, got %d", line, len(parts))
		}

		v, err := strconv.ParseFloat(parts[len(parts)-1], 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing float in line %q: %w", line, err)
		}
		result = append(result, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return result, nil
}

func OpenFile(makeDir bool, outputPath, modelName, fileSuffix string) (*os.File, error) {
	if makeDir && modelName != "" && modelName != "." {
		os.MkdirAll(filepath.Join(outputPath, modelName), 0750)
		return os.Create(filepath.Join(outputPath, modelName, fileSuffix+".txt"))
	}
	return os.Create(filepath.Join(outputPath, modelName+"_"+fileSuffix+".txt"))
}
