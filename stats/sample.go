// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package stats computes summary statistics of price samples.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Sample stores unordered set of numerical data (float64) and computes various
// statistics over it. Statistics of an empty Sample are 0.
type Sample struct {
	data []float64
	mean *float64 // cached
}

// NewSample creates a new Sample. Note, that it reuses the same slice without
// copying. Use Copy() if you need to decouple your input from the Sample.
func NewSample(data []float64) *Sample {
	return &Sample{data: data}
}

// Data returns the sample data.
func (s *Sample) Data() []float64 { return s.data }

// Len is the number of samples.
func (s *Sample) Len() int { return len(s.data) }

// Copy the Sample, so the original data can be modified without affecting
// the copy.
func (s *Sample) Copy() *Sample {
	cp := make([]float64, len(s.data))
	copy(cp, s.data)
	return NewSample(cp)
}

// Sum of samples.
func (s *Sample) Sum() float64 {
	sum := 0.0
	for _, d := range s.data {
		sum += d
	}
	return sum
}

// Mean computes the mean of the Sample, cached.
func (s *Sample) Mean() float64 {
	if len(s.data) == 0 {
		return 0.0
	}
	if s.mean == nil {
		m := stat.Mean(s.data, nil)
		s.mean = &m
	}
	return *s.mean
}

// MAD computes mean absolute deviation of the Sample.
func (s *Sample) MAD() float64 {
	if len(s.data) == 0 {
		return 0.0
	}
	mean := s.Mean()
	sumDev := 0.0
	for _, d := range s.data {
		sumDev += math.Abs(d - mean)
	}
	return sumDev / float64(len(s.data))
}

// Variance of the Sample (sigma squared) as the population variance.
func (s *Sample) Variance() float64 {
	if len(s.data) == 0 {
		return 0.0
	}
	return stat.PopVariance(s.data, nil)
}

// Sigma computes the standard deviation of the Sample.
func (s *Sample) Sigma() float64 {
	return math.Sqrt(s.Variance())
}
