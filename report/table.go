package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spektr-org/talkingdata/engine"
)

// WriteTable prints every column of a table in aligned text columns.
// Cells are never truncated.
func WriteTable(w io.Writer, table *engine.TableData) error {
	if table == nil || len(table.Columns) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Label
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, row := range table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}
