package tally

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/dceoy/tmber/internal/bed"
	"github.com/dceoy/tmber/internal/vcf"
)

// Task is one unit of work: tally a shared variant collection against one
// region set.
type Task struct {
	Seq int
	Set *bed.Set
}

// Result holds the tally output for one region set.
type Result struct {
	Seq    int
	Bed    string
	Size   int64
	Counts []Count
	Err    error
}

// Engine runs tally tasks across a bounded worker pool.
type Engine struct {
	workers int
	logger  *zap.Logger
}

// NewEngine creates an engine with the given parallelism limit. Zero or
// negative means runtime.NumCPU().
func NewEngine(workers int) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{workers: workers, logger: zap.NewNop()}
}

// SetLogger sets the logger for per-task progress messages.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Run tallies variants against every region set, one task per set, and
// returns the results in region-set order regardless of completion order.
// Any failing task aborts the whole computation.
func (e *Engine) Run(variants []*vcf.Variant, sets []*bed.Set) ([]Result, error) {
	tasks := make(chan Task)
	results := make(chan Result, 2*e.workers)

	var wg sync.WaitGroup
	wg.Add(e.workers)
	for w := 0; w < e.workers; w++ {
		go func() {
			defer wg.Done()
			for t := range tasks {
				results <- runTask(variants, t)
			}
		}()
	}

	go func() {
		for i, s := range sets {
			tasks <- Task{Seq: i, Set: s}
		}
		close(tasks)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]Result, len(sets))
	var failure error
	for r := range results {
		if r.Err != nil {
			if failure == nil {
				failure = r.Err
			}
			continue
		}
		e.logger.Debug("tallied region set",
			zap.String("bed", r.Bed),
			zap.Int64("size", r.Size),
			zap.Int("allele_pairs", len(r.Counts)))
		collected[r.Seq] = r
	}
	if failure != nil {
		return nil, failure
	}
	return collected, nil
}

// runTask tallies one region set, converting a panicking task into a
// Result error so a single bad task fails the whole computation instead of
// crashing the process.
func runTask(variants []*vcf.Variant, t Task) (res Result) {
	res.Seq = t.Seq
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("tally task %d: %v", t.Seq, r)
		}
	}()
	res.Bed = t.Set.Name
	res.Size = t.Set.Size
	res.Counts = Tally(variants, t.Set)
	return res
}
