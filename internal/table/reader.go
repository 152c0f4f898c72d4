// internal/table/reader.go
package table

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ReadOptions control delimited parsing. A zero Sep sniffs tab-vs-comma from
// the header line; Comment lines (whole-line prefix) are skipped when set.
type ReadOptions struct {
	Sep     rune
	Comment rune
}

// openReader handles "-" for stdin and transparent gzip (by magic number or
// .gz suffix), same contract for every input the pipeline touches.
func openReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		_ = fh.Close()
		return nil, err
	}
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &gzipReadCloser{gz: gz, fh: fh}, nil
	}
	return fh, nil
}

type gzipReadCloser struct {
	gz *gzip.Reader
	fh *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	gerr := g.gz.Close()
	ferr := g.fh.Close()
	if gerr != nil {
		return gerr
	}
	return ferr
}

// ReadFile loads a delimited table from path.
func ReadFile(path string, opt ReadOptions) (Table, error) {
	rc, err := openReader(path)
	if err != nil {
		return Table{}, err
	}
	defer func() { _ = rc.Close() }()
	t, err := Read(rc, opt)
	if err != nil {
		return Table{}, errors.Wrap(err, path)
	}
	return t, nil
}

// Read parses a delimited table: first non-comment line is the header, every
// following line one row. Short rows are padded with nulls, the Null marker
// is normalized to the empty string, and rows wider than the header are an
// error.
func Read(r io.Reader, opt ReadOptions) (Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	var t Table
	sep := opt.Sep
	ln := 0
	for sc.Scan() {
		ln++
		line := sc.Text()
		if line == "" {
			continue
		}
		if opt.Comment != 0 && strings.HasPrefix(line, string(opt.Comment)) {
			continue
		}
		if t.Columns == nil {
			if sep == 0 {
				sep = sniffSep(line)
			}
			t.Columns = strings.Split(line, string(sep))
			for i := range t.Columns {
				t.Columns[i] = strings.TrimSpace(t.Columns[i])
			}
			continue
		}
		cells := strings.Split(line, string(sep))
		if len(cells) > len(t.Columns) {
			return Table{}, errors.Errorf("line %d has %d fields, header has %d", ln, len(cells), len(t.Columns))
		}
		row := make([]string, len(t.Columns))
		for i := range row {
			if i < len(cells) {
				c := strings.TrimRight(cells[i], "\r")
				if c == Null {
					c = ""
				}
				row[i] = c
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return Table{}, err
	}
	if t.Columns == nil {
		return Table{}, errors.New("empty input: no header line")
	}
	return t, nil
}

func sniffSep(header string) rune {
	if strings.ContainsRune(header, '\t') {
		return '\t'
	}
	return ','
}
