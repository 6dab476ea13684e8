package mathutil

import "gonum.org/v1/gonum/mat"

// Mat is a 2D float64 matrix stored as row-major [][]float64.
type Mat = [][]float64

// NewMat creates a rows x cols matrix initialized to zero.
func NewMat(rows, cols int) Mat {
	m := make(Mat, rows)
	data := make([]float64, rows*cols)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols]
	}
	return m
}

// NewMatFill creates a rows x cols matrix filled with val.
func NewMatFill(rows, cols int, val float64) Mat {
	m := NewMat(rows, cols)
	FillMat(m, val)
	return m
}

// FillMat fills all elements of an existing matrix with val.
func FillMat(m Mat, val float64) {
	for i := range m {
		for j := range m[i] {
			m[i][j] = val
		}
	}
}

// NewIndexMat creates a rows x cols matrix of ints, used for backpointers.
func NewIndexMat(rows, cols int) [][]int {
	m := make([][]int, rows)
	data := make([]int, rows*cols)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols]
	}
	return m
}

// ApplyDense copies the top-left rows x cols block of src into a new Mat,
// passing every element through fn. Hot loops read the result instead of
// calling src.At.
func ApplyDense(src mat.Matrix, rows, cols int, fn func(float64) float64) Mat {
	m := NewMat(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m[i][j] = fn(src.At(i, j))
		}
	}
	return m
}
