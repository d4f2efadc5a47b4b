// Package blas provides the small vector kernels the SpMV executor and
// parallel driver apply against dense x/y/tmp vectors: gather-multiply
// reductions for a unit's contribution, scatter-add for multi-row patterns,
// and the α/β combine step.
//
// Adapted from the teacher's blas/level1.go and blas/axpy.go (Dusga,
// Dussc, Dusaxpy), generalised from BLAS sparse-vector update semantics to
// CSX's pattern-unit semantics: accumulate rather than overwrite, and
// operate over explicit index slices the executor derives from a pattern's
// generator.
package blas

// GatherMulAdd returns sum(values[i] * x[cols[i]]) — the FMA reduction a
// DeltaRLE or block unit folds into its row accumulator.
func GatherMulAdd(x []float64, cols []int, values []float64) float64 {
	var sum float64
	for i, c := range cols {
		sum += values[i] * x[c]
	}
	return sum
}

// ScatterAdd performs y[rows[i]] += values[i] for each i, used when a
// Linear or Block pattern's generator touches rows other than the unit's
// home row (spec §4.7's Linear/Block dispatch).
func ScatterAdd(y []float64, rows []int, values []float64) {
	for i, r := range rows {
		y[r] += values[i]
	}
}

// AxpyScale computes dst[i] = alpha*src[i] + beta*dst[i] in place, the
// driver's per-partition α/β combine after SpMV (spec §4.8).
func AxpyScale(alpha float64, src []float64, beta float64, dst []float64) {
	for i := range dst {
		dst[i] = alpha*src[i] + beta*dst[i]
	}
}
