package csr

import "gonum.org/v1/gonum/mat"

// ReferenceMultiply computes y = A*x using a naive row-major scan. It exists
// only for validation against the CSX-encoded SpMV result (spec §4.2, and
// the reference-CSR collaborator named out of scope in spec §1).
func (m *Matrix) ReferenceMultiply(x, y []float64) {
	for i := 0; i < m.NRows; i++ {
		var sum float64
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			sum += m.Values[k] * x[m.ColInd[k]]
		}
		y[i] = sum
	}
}

// ToDense returns a gonum dense copy of the matrix. No test or CLI path in
// this module calls it.
func (m *Matrix) ToDense() *mat.Dense {
	d := mat.NewDense(m.NRows, m.NCols, nil)
	for i := 0; i < m.NRows; i++ {
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			d.Set(i, m.ColInd[k], m.Values[k])
		}
	}
	return d
}
