// Package stats provides NaN-tolerant statistical estimators for bias adjustment.
//
// This package includes sample quantile estimation in the Hyndman-Fan
// interpolation family, empirical CDFs, percentage ranks and rank
// correlation.
//
// # Quantile Estimation
//
// Estimate quantiles of a sample with missing data:
//
//	// Classical linear interpolation (type 7)
//	q := stats.NaNQuantile(sample, []float64{0.1, 0.5, 0.9}, 1, 1)
//
//	// Median-unbiased estimates (type 8)
//	q = stats.NaNQuantile(sample, []float64{0.1, 0.5, 0.9}, 1.0/3, 1.0/3)
//
// NaNs are ignored per sample. An all-NaN sample yields NaN for every
// level and a single-valued sample yields that value everywhere, so the
// estimators are safe over arbitrary missing-data patterns.
//
// Gridded data reduces along the time dimension, with the requested
// levels delivered on a new trailing "percentiles" dimension:
//
//	perc, _ := stats.CalcPerc(arr, "time", []float64{10, 50, 90}, 1, 1)
//
// # Quantile Nodes
//
// Build the levels an empirical quantile curve is sampled at:
//
//	// 50 mid-bin nodes plus near-0 and near-1 end nodes
//	levels := stats.EquallySpacedNodes(50, 1e-6)
//
// # Ranks and Correlation
//
// Percentage ranks scaled to [0, 1] and Spearman correlation:
//
//	pct := stats.RankPct(values)
//	rho := stats.Spearman(x, y)
package stats
