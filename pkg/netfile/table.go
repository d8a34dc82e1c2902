package netfile

import (
	"bufio"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Table is a simulation output table, such as a `.gdat` or `.cdat` file.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// Column returns the values of the named column, or nil if there is no such
// column.
func (t *Table) Column(name string) []float64 {
	i := slices.Index(t.Columns, name)
	if i < 0 {
		return nil
	}
	res := make([]float64, len(t.Rows))
	for j, row := range t.Rows {
		res[j] = row[i]
	}
	return res
}

// ReadTable reads a table whose first line is `# ` followed by
// whitespace-separated column names, and whose other lines are numeric
// rows with one value per column.
func ReadTable(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	res := &Table{}
	var lineNum int
	for sc.Scan() {
		lineNum++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if res.Columns == nil {
			head, ok := strings.CutPrefix(text, "#")
			if !ok {
				return nil, SimulationOutputError(lineNum, "header does not start with #", nil)
			}
			res.Columns = strings.Fields(head)
			if len(res.Columns) == 0 {
				return nil, SimulationOutputError(lineNum, "header has no columns", nil)
			}
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != len(res.Columns) {
			return nil, SimulationOutputError(lineNum,
				"row has "+strconv.Itoa(len(fields))+" values, expected "+
					strconv.Itoa(len(res.Columns)), nil)
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, SimulationOutputError(lineNum, "value "+f+" is not a number", err)
			}
			row[i] = v
		}
		res.Rows = append(res.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, SimulationOutputError(lineNum, "cannot read table", err)
	}
	if res.Columns == nil {
		return nil, SimulationOutputError(0, "table is empty", nil)
	}
	return res, nil
}
