// Package scaler implements per-feature standardization (zero mean,
// unit variance) over the catalog's raw feature matrix. The state is
// fitted once at load time and reused for every transform until the
// catalog itself changes.
package scaler

import (
	"errors"
	"math"

	"github.com/sarthakvats/melodia/internal/model"
)

// ErrEmptyMatrix is returned when Fit is called with no rows.
var ErrEmptyMatrix = errors.New("scaler: cannot fit on empty feature matrix")

// State holds the fitted (mean, stddev) pair for each feature column.
type State struct {
	Mean [model.NumFeatures]float64
	Std  [model.NumFeatures]float64
}

// Fit computes the population mean and standard deviation of every
// feature column across all rows.
func Fit(matrix []model.FeatureVector) (*State, error) {
	if len(matrix) == 0 {
		return nil, ErrEmptyMatrix
	}

	s := &State{}
	n := float64(len(matrix))

	for _, row := range matrix {
		for f := 0; f < model.NumFeatures; f++ {
			s.Mean[f] += row[f]
		}
	}
	for f := 0; f < model.NumFeatures; f++ {
		s.Mean[f] /= n
	}

	for _, row := range matrix {
		for f := 0; f < model.NumFeatures; f++ {
			d := row[f] - s.Mean[f]
			s.Std[f] += d * d
		}
	}
	for f := 0; f < model.NumFeatures; f++ {
		s.Std[f] = math.Sqrt(s.Std[f] / n)
	}

	return s, nil
}

// Transform standardizes a raw feature vector using the fitted state.
// A zero-variance column standardizes to 0 rather than dividing by
// zero.
func (s *State) Transform(v model.FeatureVector) model.FeatureVector {
	var out model.FeatureVector
	for f := 0; f < model.NumFeatures; f++ {
		if s.Std[f] == 0 {
			out[f] = 0
			continue
		}
		out[f] = (v[f] - s.Mean[f]) / s.Std[f]
	}
	return out
}

// Inverse maps a standardized vector back to raw feature values.
// Zero-variance columns recover their (constant) mean.
func (s *State) Inverse(v model.FeatureVector) model.FeatureVector {
	var out model.FeatureVector
	for f := 0; f < model.NumFeatures; f++ {
		out[f] = v[f]*s.Std[f] + s.Mean[f]
	}
	return out
}
