package main

import (
	"fmt"
	"sort"

	"statdp/algorithms"
	"statdp/mechanism"
)

// algorithmRegistry maps a CLI-facing name to the mechanism implementing
// it. Several entries are deliberately buggy variants (see
// statdp/algorithms), kept under names that say what they are.
var algorithmRegistry = map[string]mechanism.Mechanism{
	"noisy_max_argmax":            algorithms.NoisyMaxArgmax,
	"noisy_max_argmax_value":      algorithms.NoisyMaxArgmaxValue,
	"noisy_max_exponential":       algorithms.NoisyMaxExponential,
	"noisy_max_exponential_value": algorithms.NoisyMaxExponentialValue,
	"histogram":                   algorithms.Histogram,
	"histogram_eps_confusion":     algorithms.HistogramEpsConfusion,
	"svt":                         algorithms.SVT,
	"isvt1":                       algorithms.ISVT1,
	"isvt2":                       algorithms.ISVT2,
	"isvt3":                       algorithms.ISVT3,
	"isvt4":                       algorithms.ISVT4,
}

func lookupAlgorithm(name string) (mechanism.Mechanism, error) {
	m, ok := algorithmRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q (see `statdp list`)", name)
	}
	return m, nil
}

func algorithmNames() []string {
	names := make([]string, 0, len(algorithmRegistry))
	for name := range algorithmRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
