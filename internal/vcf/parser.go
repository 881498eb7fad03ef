package vcf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dceoy/tmber/internal/textio"
)

// Parser reads variants from a VCF stream. Decompression is the caller's
// concern (see textio.Open); the parser consumes plain text.
type Parser struct {
	reader      *bufio.Reader
	lineNumber  int
	header      []string
	sampleNames []string // sample names from the #CHROM header line
}

// NewParser creates a parser reading from r, consuming the header up to and
// including the #CHROM line.
func NewParser(r io.Reader) (*Parser, error) {
	p := &Parser{reader: bufio.NewReader(r)}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "##") {
			p.header = append(p.header, line)
			continue
		}

		if strings.HasPrefix(line, "#CHROM") {
			p.header = append(p.header, line)
			fields := strings.Split(line, "\t")
			if len(fields) > 9 {
				p.sampleNames = fields[9:]
			}
			return nil
		}

		return &ParseError{
			Line:    p.lineNumber,
			Message: "expected #CHROM header line",
		}
	}

	return &ParseError{
		Line:    p.lineNumber,
		Message: "no #CHROM header line found",
	}
}

// Next reads the next variant. Returns nil, nil at end of input.
func (p *Parser) Next() (*Variant, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if line == "" {
				return nil, nil
			}
		} else {
			return nil, fmt.Errorf("read variant line: %w", err)
		}
	}
	p.lineNumber++

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err == io.EOF {
			return nil, nil
		}
		return p.Next() // skip empty lines
	}

	return p.parseLine(line)
}

func (p *Parser) parseLine(line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least 8 columns, found %d", len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	var format string
	var samples []string
	if len(fields) > 9 {
		format = fields[8]
		samples = fields[9:]
	}

	return newVariant(
		fields[0], pos, fields[3], fields[4], fields[6],
		parseInfo(fields[7]), format, samples,
	), nil
}

// parseInfo parses the semicolon-delimited INFO field. Flag-type keys map
// to an empty value.
func parseInfo(info string) map[string]string {
	result := make(map[string]string)
	if info == "." {
		return result
	}
	for _, kv := range strings.Split(info, ";") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			result[parts[0]] = parts[1]
		} else {
			result[parts[0]] = ""
		}
	}
	return result
}

// Header returns the raw VCF header lines.
func (p *Parser) Header() []string {
	return p.header
}

// SampleNames returns sample names from the #CHROM header line, nil when
// the file carries no sample columns.
func (p *Parser) SampleNames() []string {
	return p.sampleNames
}

// SampleIndex returns the column index of the named sample. A missing
// sample is a configuration error.
func (p *Parser) SampleIndex(name string) (int, error) {
	for i, s := range p.sampleNames {
		if s == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("sample column %q not found (have %v)", name, p.sampleNames)
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// ParseError reports a malformed VCF line with its position in the input.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}

// FilterOptions select which records ReadAll keeps.
type FilterOptions struct {
	// ExcludeFiltered drops records whose FILTER is neither PASS nor ".".
	ExcludeFiltered bool
	// Sample names the sample column whose AF subfield is windowed. Empty
	// disables AF filtering. Records without a numeric AF are excluded
	// while the filter is active.
	Sample string
	MinAF  float64
	MaxAF  float64
}

// ReadAll reads every variant from the parser, applying the filters.
func ReadAll(p *Parser, opts FilterOptions) ([]*Variant, error) {
	sampleIdx := -1
	if opts.Sample != "" {
		i, err := p.SampleIndex(opts.Sample)
		if err != nil {
			return nil, err
		}
		sampleIdx = i
	}

	var variants []*Variant
	for {
		v, err := p.Next()
		if err != nil {
			return nil, err
		}
		if v == nil {
			return variants, nil
		}
		if opts.ExcludeFiltered && !v.Passed() {
			continue
		}
		if sampleIdx >= 0 {
			af, ok := v.AlleleFrequency(sampleIdx)
			if !ok || af < opts.MinAF || af > opts.MaxAF {
				continue
			}
		}
		variants = append(variants, v)
	}
}

// LoadAll reads and filters variants from every path, pooling them into one
// deduplicated collection. Paths may be gzip-, BGZF- or bzip2-compressed.
func LoadAll(paths []string, open textio.Options, filter FilterOptions) ([]*Variant, error) {
	var pooled []*Variant
	for _, path := range paths {
		r, err := textio.Open(path, open)
		if err != nil {
			return nil, fmt.Errorf("open vcf %s: %w", path, err)
		}

		p, err := NewParser(r)
		if err == nil {
			var vs []*Variant
			vs, err = ReadAll(p, filter)
			pooled = append(pooled, vs...)
		}
		if cerr := r.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("read vcf %s: %w", path, err)
		}
	}
	return Dedup(pooled), nil
}
