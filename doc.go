// Package xsdba provides statistical bias adjustment of model-simulated
// time series against observed references.
//
// xsdba implements the numerical core of quantile-mapping bias
// correction: grouped correction factors, interpolation along empirical
// quantile curves, NaN-tolerant percentile estimation, exceedance-cluster
// extraction for extreme-value adjustment, and sign-orientation
// resolution for principal-component transforms.
//
// # Quick Start
//
// Build quantile curves from reference and simulated samples and map new
// values through them:
//
//	levels := stats.EquallySpacedNodes(50, 1e-6)
//	refQ := stats.NaNQuantile(ref, levels, 1, 1)
//	simQ := stats.NaNQuantile(sim, levels, 1, 1)
//	adj, _ := qmap.InterpOnQuantiles(newx, simCurve, refCurve,
//	    grouping.GroupSpec{}, qmap.Linear, qmap.ExtrapConstant)
//
// Compute and apply correction factors:
//
//	cf, _ := correction.Get(sim, ref, correction.Multiplicative)
//	scen, _ := correction.Apply(model, cf, "")
//
// # Packages
//
// The library is organized into the following packages:
//
//   - grid: n-dimensional arrays with a time axis and NaN-aware reductions
//   - grouping: time partitioning (month, season, day of year) and cyclic padding
//   - stats: NaN-tolerant quantiles, ECDF, ranks and rank correlation
//   - correction: additive and multiplicative adjustment factors
//   - qmap: interpolation of values along quantile curves
//   - cluster: exceedance-cluster extraction for extreme-value methods
//   - pca: principal-component transforms and orientation resolution
//   - diag: structured diagnostics for degenerate data
//
// All operations are pure functions over caller-owned arrays; every
// per-slice computation is independent and safe to evaluate concurrently.
//
// # References
//
//   - Hyndman, R.J., & Fan, Y. (1996). Sample Quantiles in Statistical Packages
//   - Hnilica, J., et al. (2017). Multisite bias correction of precipitation data
//   - Alavoine, M., & Grenier, P. (2022). The distinct problems of physical
//     inconsistency and of multivariate bias
package xsdba
