package ndimage

import "sync"

// Pool provides sync.Pool-based Image reuse for scratch buffers that are
// allocated once per iteration or call.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Image{}
			},
		},
	}
}

// Get returns a zeroed image with the requested shape.
// The shape must be valid. Callers must return the image via Put when done.
func (p *Pool) Get(shape Shape) *Image {
	m := p.pool.Get().(*Image)
	m.reshape(shape)
	m.Fill(0)

	return m
}

// Put returns an image to the pool for reuse.
// The caller must not use the image after calling Put.
func (p *Pool) Put(m *Image) {
	if m == nil {
		return
	}

	p.pool.Put(m)
}

// reshape sets the shape of m, reusing the backing array when its
// capacity allows.
func (m *Image) reshape(shape Shape) {
	n := shape.Len()
	if cap(m.data) >= n {
		m.data = m.data[:n]
	} else {
		m.data = make([]float64, n)
	}

	m.shape = shape.Clone()
	m.strides = shape.Strides()
}
