package bed

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dceoy/tmber/internal/textio"
)

// ParseError reports a malformed BED line with its position in the input.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bed parse error at line %d: %s", e.Line, e.Message)
}

// ParseIntervals reads BED intervals from r. Chromosome names are
// chr-normalized; browser, track and comment lines are skipped. Only the
// first three columns are used.
func ParseIntervals(r io.Reader) ([]Interval, error) {
	var intervals []Interval

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" ||
			strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "browser") ||
			strings.HasPrefix(line, "track") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, &ParseError{
				Line:    lineNumber,
				Message: fmt.Sprintf("expected at least 3 columns, found %d", len(fields)),
			}
		}

		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, &ParseError{
				Line:    lineNumber,
				Message: fmt.Sprintf("invalid chromStart: %s", fields[1]),
			}
		}
		end, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, &ParseError{
				Line:    lineNumber,
				Message: fmt.Sprintf("invalid chromEnd: %s", fields[2]),
			}
		}

		intervals = append(intervals, Interval{
			Chrom: NormalizeChrom(fields[0]),
			Start: start,
			End:   end,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read bed: %w", err)
	}

	return intervals, nil
}

// LoadSet reads, merges and names a region set from a BED file, which may
// be gzip-, BGZF- or bzip2-compressed.
func LoadSet(path string, opts textio.Options) (*Set, error) {
	r, err := textio.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open bed %s: %w", path, err)
	}

	intervals, err := ParseIntervals(r)
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("read bed %s: %w", path, err)
	}

	return NewSet(NameFromPath(path), intervals)
}

// NameFromPath derives a region set name from a BED file path: the base
// name with compression and .bed extensions stripped.
func NameFromPath(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".gz", ".bgz", ".bz2", ".bed"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
