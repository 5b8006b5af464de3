package tangent

import "github.com/san-kum/polyspring/internal/mstate"

// BlockSize is the number of degrees of freedom per point.
const BlockSize = 3

// Matrix receives additive contributions.
type Matrix interface {
	Add(row, col int, v float64)
}

// Ref is the diagonal region owned by one point set.
type Ref struct {
	Matrix Matrix
	Offset int
}

// InteractionRef is the off-diagonal region coupling two point sets.
type InteractionRef struct {
	Matrix    Matrix
	RowOffset int
	ColOffset int
}

// Accessor resolves matrix regions for point sets. The boolean is false when
// no region is allocated for the request.
type Accessor interface {
	Matrix(s *mstate.Points) (Ref, bool)
	InteractionMatrix(rows, cols *mstate.Points) (InteractionRef, bool)
}

// AddBlock adds scale*b to the 3x3 block of points (i, j) of a diagonal region.
func (r Ref) AddBlock(i, j int, b *[BlockSize][BlockSize]float64, scale float64) {
	addBlock(r.Matrix, r.Offset+BlockSize*i, r.Offset+BlockSize*j, b, scale)
}

// AddBlock adds scale*b to the 3x3 block of points (i, j) of a coupling region.
func (r InteractionRef) AddBlock(i, j int, b *[BlockSize][BlockSize]float64, scale float64) {
	addBlock(r.Matrix, r.RowOffset+BlockSize*i, r.ColOffset+BlockSize*j, b, scale)
}

// AddDiagonal adds scale*d[axis] on the diagonal of point i's block.
func (r Ref) AddDiagonal(i int, d *[BlockSize]float64, scale float64) {
	base := r.Offset + BlockSize*i
	for k := 0; k < BlockSize; k++ {
		r.Matrix.Add(base+k, base+k, scale*d[k])
	}
}

func addBlock(m Matrix, row, col int, b *[BlockSize][BlockSize]float64, scale float64) {
	for p := 0; p < BlockSize; p++ {
		for q := 0; q < BlockSize; q++ {
			m.Add(row+p, col+q, scale*b[p][q])
		}
	}
}
