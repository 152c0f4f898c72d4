// internal/table/writer.go
package table

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Write emits t tab-delimited: header line, then one line per row with null
// cells rendered as the Null marker.
func Write(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(t.Columns, "\t") + "\n"); err != nil {
		return err
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i > 0 {
				if err := bw.WriteByte('\t'); err != nil {
					return err
				}
			}
			if IsNull(cell) {
				cell = Null
			}
			if _, err := bw.WriteString(cell); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes t to path, with "-" meaning stdout.
func WriteFile(path string, t *Table) error {
	if path == "-" {
		return Write(os.Stdout, t)
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(fh, t); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
