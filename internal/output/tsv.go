// Package output writes tally results and derived regions as tab-separated
// files. All formats are header-less.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/dceoy/tmber/internal/bed"
	"github.com/dceoy/tmber/internal/tally"
)

// CountWriter writes the raw per-region-set tally table:
// bed_name, bed_size, variant_type, ref, alt, observed_count.
type CountWriter struct {
	w *bufio.Writer
}

// NewCountWriter creates a raw tally writer.
func NewCountWriter(w io.Writer) *CountWriter {
	return &CountWriter{w: bufio.NewWriter(w)}
}

// Write writes a single tally count row.
func (cw *CountWriter) Write(c tally.Count) error {
	_, err := fmt.Fprintf(cw.w, "%s\t%d\t%s\t%s\t%s\t%d\n",
		c.Bed, c.Size, c.Class, c.Ref, c.Alt, c.Observed)
	return err
}

// Flush flushes buffered output.
func (cw *CountWriter) Flush() error {
	return cw.w.Flush()
}

// TMBWriter writes the final TMB table:
// bed_name, bed_size, variant_type, observed_count, mutations_per_mb.
type TMBWriter struct {
	w *bufio.Writer
}

// NewTMBWriter creates a TMB table writer.
func NewTMBWriter(w io.Writer) *TMBWriter {
	return &TMBWriter{w: bufio.NewWriter(w)}
}

// Write writes a single TMB row. The rate is formatted with the shortest
// exact decimal representation.
func (tw *TMBWriter) Write(r tally.Row) error {
	_, err := fmt.Fprintf(tw.w, "%s\t%d\t%s\t%d\t%s\n",
		r.Bed, r.Size, r.Class, r.Observed,
		strconv.FormatFloat(r.PerMB, 'f', -1, 64))
	return err
}

// Flush flushes buffered output.
func (tw *TMBWriter) Flush() error {
	return tw.w.Flush()
}

// BEDWriter writes three-column BED intervals.
type BEDWriter struct {
	w *bufio.Writer
}

// NewBEDWriter creates a BED writer.
func NewBEDWriter(w io.Writer) *BEDWriter {
	return &BEDWriter{w: bufio.NewWriter(w)}
}

// Write writes a single interval.
func (bw *BEDWriter) Write(iv bed.Interval) error {
	_, err := fmt.Fprintf(bw.w, "%s\t%d\t%d\n", iv.Chrom, iv.Start, iv.End)
	return err
}

// Flush flushes buffered output.
func (bw *BEDWriter) Flush() error {
	return bw.w.Flush()
}
