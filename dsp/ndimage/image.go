package ndimage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors returned by image construction.
var (
	ErrEmptyShape    = errors.New("ndimage: empty shape")
	ErrInvalidShape  = errors.New("ndimage: dimension sizes must be positive")
	ErrDataLength    = errors.New("ndimage: data length does not match shape")
	ErrShapeMismatch = errors.New("ndimage: shape mismatch")
)

// Shape is the ordered tuple of dimension sizes of an image.
type Shape []int

// Validate reports an error unless the shape has at least one axis and
// every axis is positive.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return ErrEmptyShape
	}

	for axis, n := range s {
		if n <= 0 {
			return fmt.Errorf("%w: axis %d has size %d", ErrInvalidShape, axis, n)
		}
	}

	return nil
}

// Len returns the number of samples described by the shape.
func (s Shape) Len() int {
	if len(s) == 0 {
		return 0
	}

	n := 1
	for _, d := range s {
		n *= d
	}

	return n
}

// Equal reports whether s and other have the same dimensionality and sizes.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}

	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}

	return true
}

// Clone returns a copy of s.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)

	return out
}

// Strides returns the row-major element strides for s.
func (s Shape) Strides() []int {
	strides := make([]int, len(s))

	step := 1
	for axis := len(s) - 1; axis >= 0; axis-- {
		strides[axis] = step
		step *= s[axis]
	}

	return strides
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}

	return strings.Join(parts, "x")
}

// Image is a dense N-dimensional array of float64 samples.
type Image struct {
	shape   Shape
	strides []int
	data    []float64
}

// New returns a zero-filled image of the given shape.
func New(shape Shape) (*Image, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	return &Image{
		shape:   shape.Clone(),
		strides: shape.Strides(),
		data:    make([]float64, shape.Len()),
	}, nil
}

// FromData wraps data as an image of the given shape without copying.
// Mutations to data are visible through the image and vice versa.
func FromData(shape Shape, data []float64) (*Image, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	if len(data) != shape.Len() {
		return nil, fmt.Errorf("%w: shape %v needs %d samples, got %d", ErrDataLength, shape, shape.Len(), len(data))
	}

	return &Image{
		shape:   shape.Clone(),
		strides: shape.Strides(),
		data:    data,
	}, nil
}

// Shape returns the image shape. The returned slice must not be modified.
func (m *Image) Shape() Shape {
	return m.shape
}

// Strides returns the row-major strides. The returned slice must not be modified.
func (m *Image) Strides() []int {
	return m.strides
}

// Dims returns the number of axes.
func (m *Image) Dims() int {
	return len(m.shape)
}

// Len returns the number of samples.
func (m *Image) Len() int {
	return len(m.data)
}

// Data returns the underlying sample slice.
func (m *Image) Data() []float64 {
	return m.data
}

// Contains reports whether idx addresses a sample inside the image.
func (m *Image) Contains(idx []int) bool {
	if len(idx) != len(m.shape) {
		return false
	}

	for axis, i := range idx {
		if i < 0 || i >= m.shape[axis] {
			return false
		}
	}

	return true
}

// Offset returns the linear offset of an in-range multi-index.
func (m *Image) Offset(idx []int) int {
	off := 0
	for axis, i := range idx {
		off += i * m.strides[axis]
	}

	return off
}

// Unravel writes the multi-index of linear offset off into idx.
// idx must have length Dims().
func (m *Image) Unravel(off int, idx []int) {
	for axis := range m.shape {
		idx[axis] = off / m.strides[axis]
		off -= idx[axis] * m.strides[axis]
	}
}

// At returns the sample at idx. It panics if idx is out of range.
func (m *Image) At(idx ...int) float64 {
	return m.data[m.mustOffset(idx)]
}

// Set stores v at idx. It panics if idx is out of range.
func (m *Image) Set(v float64, idx ...int) {
	m.data[m.mustOffset(idx)] = v
}

func (m *Image) mustOffset(idx []int) int {
	if !m.Contains(idx) {
		panic(fmt.Sprintf("ndimage: index %v out of range for shape %v", idx, m.shape))
	}

	return m.Offset(idx)
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	data := make([]float64, len(m.data))
	copy(data, m.data)

	return &Image{
		shape:   m.shape.Clone(),
		strides: append([]int(nil), m.strides...),
		data:    data,
	}
}

// CopyFrom copies the samples of src into m. Shapes must be equal.
func (m *Image) CopyFrom(src *Image) error {
	if !m.shape.Equal(src.shape) {
		return fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, m.shape, src.shape)
	}

	copy(m.data, src.data)

	return nil
}

// Fill sets every sample to v.
func (m *Image) Fill(v float64) {
	for i := range m.data {
		m.data[i] = v
	}
}

// Sum returns the sum of all samples.
func (m *Image) Sum() float64 {
	var sum float64
	for _, v := range m.data {
		sum += v
	}

	return sum
}
