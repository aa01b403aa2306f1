package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Table is an ordered set of column headers plus rows of scalar cells,
// built transiently from already-fetched records right before export.
type Table struct {
	Headers []string
	Rows    [][]interface{}
}

// AddRow appends one row of raw cell values.
func (t *Table) AddRow(cells ...interface{}) {
	t.Rows = append(t.Rows, cells)
}

// BuildCSV serializes the table to CSV text: header row first, fields
// comma-joined, records newline-joined. Fields containing a comma,
// double quote or newline are quoted with internal quotes doubled
// (encoding/csv rules). Rows shorter than the header are padded with
// empty trailing fields so a partial export stays loadable; extra cells
// beyond the header are dropped.
func (t *Table) BuildCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Headers); err != nil {
		return nil, err
	}

	width := len(t.Headers)
	for _, row := range t.Rows {
		record := make([]string, width)
		for i := 0; i < width && i < len(row); i++ {
			record[i] = formatCell(row[i])
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatCell renders one cell value. Nil renders as an empty field,
// never the literal "nil".
func formatCell(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case bool:
		return strconv.FormatBool(c)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case float64:
		return strconv.FormatFloat(c, 'f', 2, 64)
	case decimal.Decimal:
		return c.Round(2).StringFixed(2)
	case *decimal.Decimal:
		if c == nil {
			return ""
		}
		return c.Round(2).StringFixed(2)
	case time.Time:
		return c.Format("2006-01-02")
	case *time.Time:
		if c == nil {
			return ""
		}
		return c.Format("2006-01-02")
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprintf("%v", c)
	}
}

// ContentTypeCSV is the MIME type handed to the download boundary.
const ContentTypeCSV = "text/csv;charset=utf-8"

// Filename builds the download name "<subject>-YYYY-MM-DD.csv".
func Filename(subject string, at time.Time) string {
	return fmt.Sprintf("%s-%s.csv", subject, at.Format("2006-01-02"))
}
