package system

import (
	"sync"
)

// FloatPool reuses []float64 buffers of a fixed length to reduce pressure
// on the garbage collector between extractions.
type FloatPool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = &FloatPool{
	pools: make(map[int]*sync.Pool),
}

// GetFloats returns a buffer of length n from the pool, or a new one.
// The contents are not zeroed.
func GetFloats(n int) []float64 {
	return globalPool.Get(n)
}

// PutFloats returns a buffer to the pool.
func PutFloats(buf []float64) {
	globalPool.Put(buf)
}

func (p *FloatPool) Get(n int) []float64 {
	if n == 0 {
		return nil
	}
	p.mu.RLock()
	pool, exists := p.pools[n]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[n]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					buf := make([]float64, n)
					return &buf
				},
			}
			p.pools[n] = pool
		}
		p.mu.Unlock()
	}

	return *pool.Get().(*[]float64)
}

func (p *FloatPool) Put(buf []float64) {
	if len(buf) == 0 {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[len(buf)]
	p.mu.RUnlock()

	if exists {
		pool.Put(&buf)
	}
}
