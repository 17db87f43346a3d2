package systems

import (
	"runtime"
	"sync"
)

// AccessMode declares how a kernel touches a field.
type AccessMode uint8

const (
	// Read only. Any number of workers may read concurrently.
	Read AccessMode = iota
	// WriteIdempotent stores values whose final result does not depend on
	// the order of writers (e.g. zeroing). Safe to split across workers.
	WriteIdempotent
	// WriteOrdered writes whose result depends on agent order (consuming a
	// unit, last-writer deposits). The kernel runs serially in index order.
	WriteOrdered
)

// FieldAccess pairs a field with the access a kernel needs on it.
type FieldAccess struct {
	Field FieldID
	Mode  AccessMode
}

// Kernel is one phase of the tick: a body run over an index range plus the
// field accesses it performs.
type Kernel struct {
	Name   string
	Fields []FieldAccess
	Run    func(i0, i1 int)
}

// Ordered reports whether any declared access forces serial execution.
func (k Kernel) Ordered() bool {
	for _, fa := range k.Fields {
		if fa.Mode == WriteOrdered {
			return true
		}
	}
	return false
}

// workChunk represents a range of indices for a worker to process.
type workChunk struct {
	start, end int
	run        func(i0, i1 int)
}

// Pool is a persistent worker pool running kernels as parallel-for loops.
// For returns only after every chunk has finished, so consecutive calls are
// separated by a full barrier.
type Pool struct {
	numWorkers int
	threshold  int

	// OnKernel, if set, is called with the kernel name before it runs.
	OnKernel func(name string)

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// NewPool creates a pool. workers <= 0 uses GOMAXPROCS. Loops shorter than
// threshold run on the calling goroutine.
func NewPool(workers, threshold int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold < 1 {
		threshold = 1
	}
	return &Pool{numWorkers: workers, threshold: threshold}
}

// Workers returns the number of worker goroutines the pool uses.
func (p *Pool) Workers() int { return p.numWorkers }

// startWorkers launches persistent worker goroutines.
func (p *Pool) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop signals all workers to exit and waits for them.
func (p *Pool) Stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.run(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// For runs k over [0, n).
func (p *Pool) For(n int, k Kernel) {
	if p.OnKernel != nil {
		p.OnKernel(k.Name)
	}
	if n <= 0 {
		return
	}

	// Single-threaded for small loops, single workers and ordered writes
	if n < p.threshold || p.numWorkers == 1 || k.Ordered() {
		k.Run(0, n)
		return
	}

	if !p.running {
		p.startWorkers()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end, run: k.Run}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}
