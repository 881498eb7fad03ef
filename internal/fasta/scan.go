// Package fasta derives target regions from genome FASTA sequences: maximal
// runs of selected nucleotide letters become BED intervals.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dceoy/tmber/internal/bed"
	"github.com/dceoy/tmber/internal/textio"
)

// Record is one FASTA sequence with its chr-normalized name.
type Record struct {
	Name string
	Seq  []byte
}

// ReadAll parses every record from a FASTA stream. Names are taken up to
// the first whitespace of the header line and chr-normalized.
func ReadAll(r io.Reader) ([]Record, error) {
	var records []Record
	var current *Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			name := strings.Fields(line[1:])
			if len(name) == 0 {
				return nil, fmt.Errorf("fasta header without a sequence name")
			}
			records = append(records, Record{Name: bed.NormalizeChrom(name[0])})
			current = &records[len(records)-1]
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("fasta sequence data before first header")
		}
		current.Seq = append(current.Seq, line...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read fasta: %w", err)
	}
	return records, nil
}

// TargetRegions returns the 0-based half-open intervals covering every
// maximal run of target letters in the record. Membership is
// case-sensitive, so "ACGT" skips soft-masked bases while "ACGTacgt"
// includes them.
func TargetRegions(rec Record, targets string) []bed.Interval {
	var member [256]bool
	for i := 0; i < len(targets); i++ {
		member[targets[i]] = true
	}

	var intervals []bed.Interval
	runStart := int64(-1)
	for i, b := range rec.Seq {
		if member[b] {
			if runStart < 0 {
				runStart = int64(i)
			}
			continue
		}
		if runStart >= 0 {
			intervals = append(intervals, bed.Interval{Chrom: rec.Name, Start: runStart, End: int64(i)})
			runStart = -1
		}
	}
	if runStart >= 0 {
		intervals = append(intervals, bed.Interval{Chrom: rec.Name, Start: runStart, End: int64(len(rec.Seq))})
	}
	return intervals
}

// humanAutosomes is chr1 through chr22.
var humanAutosomes = func() map[string]bool {
	m := make(map[string]bool, 22)
	for i := 1; i <= 22; i++ {
		m[fmt.Sprintf("chr%d", i)] = true
	}
	return m
}()

// Scanner derives target regions from a FASTA file across a worker pool,
// one task per sequence.
type Scanner struct {
	Targets       string // letters counted as target bases
	HumanAutosome bool   // restrict to chr1-chr22
	Workers       int    // parallelism limit; <=0 means runtime.NumCPU()

	logger *zap.Logger
}

// NewScanner creates a scanner for the given target letters.
func NewScanner(targets string) *Scanner {
	return &Scanner{Targets: targets, logger: zap.NewNop()}
}

// SetLogger sets the logger for per-sequence progress messages.
func (s *Scanner) SetLogger(l *zap.Logger) {
	s.logger = l
}

// ScanFile reads the FASTA at path (possibly compressed) and returns the
// derived intervals sorted by (chrom, start, end).
func (s *Scanner) ScanFile(path string, open textio.Options) ([]bed.Interval, error) {
	r, err := textio.Open(path, open)
	if err != nil {
		return nil, fmt.Errorf("open fasta %s: %w", path, err)
	}

	records, err := ReadAll(r)
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("read fasta %s: %w", path, err)
	}

	if s.HumanAutosome {
		kept := records[:0]
		for _, rec := range records {
			if humanAutosomes[rec.Name] {
				kept = append(kept, rec)
			}
		}
		records = kept
	}

	return s.scan(records), nil
}

// scan runs TargetRegions over the records in parallel and flattens the
// per-sequence results in deterministic order.
func (s *Scanner) scan(records []Record) []bed.Interval {
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	tasks := make(chan int)
	perRecord := make([][]bed.Interval, len(records))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range tasks {
				perRecord[i] = TargetRegions(records[i], s.Targets)
				s.logger.Debug("scanned sequence",
					zap.String("chrom", records[i].Name),
					zap.Int("regions", len(perRecord[i])))
			}
		}()
	}
	for i := range records {
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	var intervals []bed.Interval
	for _, ivs := range perRecord {
		intervals = append(intervals, ivs...)
	}
	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].Chrom != intervals[j].Chrom {
			return intervals[i].Chrom < intervals[j].Chrom
		}
		if intervals[i].Start != intervals[j].Start {
			return intervals[i].Start < intervals[j].Start
		}
		return intervals[i].End < intervals[j].End
	})
	return intervals
}
