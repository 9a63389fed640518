package pools

import (
	"bufio"
	"io"
	"sync"
	"sync/atomic"
)

// DefaultBufioSize is the reader/writer buffer size used per connection
const DefaultBufioSize = 4096

// BufioPool recycles the buffered reader and writer wrapped around each
// accepted connection
type BufioPool struct {
	readers sync.Pool
	writers sync.Pool
	size    int

	gets atomic.Uint64
	hits atomic.Uint64
	puts atomic.Uint64
}

// BufioPoolStats is a snapshot of pool usage
type BufioPoolStats struct {
	Gets uint64 `json:"gets"`
	// Hits counts gets served by a recycled reader or writer
	Hits    uint64  `json:"hits"`
	Puts    uint64  `json:"puts"`
	HitRate float64 `json:"hit_rate"`
}

// NewBufioPool creates a pool whose buffers hold size bytes
func NewBufioPool(size int) *BufioPool {
	if size <= 0 {
		size = DefaultBufioSize
	}
	return &BufioPool{size: size}
}

// GetReader returns a reader over r
func (p *BufioPool) GetReader(r io.Reader) *bufio.Reader {
	p.gets.Add(1)
	if v := p.readers.Get(); v != nil {
		p.hits.Add(1)
		br := v.(*bufio.Reader)
		br.Reset(r)
		return br
	}
	return bufio.NewReaderSize(r, p.size)
}

// PutReader returns br to the pool. Buffered bytes are discarded.
func (p *BufioPool) PutReader(br *bufio.Reader) {
	br.Reset(nil)
	p.puts.Add(1)
	p.readers.Put(br)
}

// GetWriter returns a writer over w
func (p *BufioPool) GetWriter(w io.Writer) *bufio.Writer {
	p.gets.Add(1)
	if v := p.writers.Get(); v != nil {
		p.hits.Add(1)
		bw := v.(*bufio.Writer)
		bw.Reset(w)
		return bw
	}
	return bufio.NewWriterSize(w, p.size)
}

// PutWriter returns bw to the pool. Unflushed bytes are discarded.
func (p *BufioPool) PutWriter(bw *bufio.Writer) {
	bw.Reset(nil)
	p.puts.Add(1)
	p.writers.Put(bw)
}

// Stats returns pool statistics
func (p *BufioPool) Stats() BufioPoolStats {
	g := p.gets.Load()
	s := BufioPoolStats{Gets: g, Hits: p.hits.Load(), Puts: p.puts.Load()}
	if g > 0 {
		s.HitRate = float64(s.Hits) / float64(g)
	}
	return s
}
