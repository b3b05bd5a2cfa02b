package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// utf8BOM makes spreadsheet apps detect the encoding of accented labels.
const utf8BOM = "\ufeff"

// WriteCSV writes tables one after another, each as a title line, a
// header line and its rows, separated by a blank line. Fields are
// separated by ';' as pt-BR spreadsheets expect.
func WriteCSV(w io.Writer, tables []Table) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	for i, t := range tables {
		if i > 0 {
			if err := cw.Write(nil); err != nil {
				return err
			}
		}
		if err := cw.Write([]string{t.Title}); err != nil {
			return err
		}
		if err := cw.Write(t.Header); err != nil {
			return err
		}
		if err := cw.WriteAll(t.Texts()); err != nil {
			return fmt.Errorf("write %s: %w", t.Title, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
