package bench

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Write serializes declarations to BENCH text, one per line, in the given
// order. The output parses back to the same declarations (up to line
// numbers and whitespace).
func Write(w io.Writer, decls []Declaration) error {
	bw := bufio.NewWriter(w)
	for _, d := range decls {
		if _, err := fmt.Fprintln(bw, d.String()); err != nil {
			return fmt.Errorf("write netlist: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write netlist: %w", err)
	}
	return nil
}

// Format returns the BENCH text for declarations as a string.
func Format(decls []Declaration) string {
	var b strings.Builder
	_ = Write(&b, decls)
	return b.String()
}
