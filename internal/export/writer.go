package export

import (
	"encoding/csv"
	"encoding/json"
	"iter"
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/nav-cli/internal/model"
)

// Columns is the fixed output column order. No header row is written for
// csv or xlsx.
var Columns = []string{"scheme_code", "scheme_name", "nav_date", "nav"}

// Write serializes navs to path in the given format, replacing any existing
// file. It returns the number of records written.
func Write(path string, format Format, navs iter.Seq[model.NAV]) (int, error) {
	var (
		n   int
		err error
	)
	switch format {
	case FormatCSV, "":
		n, err = writeCSV(path, navs)
	case FormatJSON:
		n, err = writeJSON(path, navs)
	case FormatXLSX:
		n, err = writeXLSX(path, navs)
	default:
		return 0, eris.Errorf("export: unsupported format %q", format)
	}
	if err != nil {
		return n, err
	}

	zap.L().Info("wrote navs",
		zap.Int("rows", n),
		zap.String("path", path),
		zap.String("format", string(format)),
	)
	return n, nil
}

func writeCSV(path string, navs iter.Seq[model.NAV]) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "export csv: create file")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	n := 0
	for nav := range navs {
		if err := w.Write(nav.Fields()); err != nil {
			return n, eris.Wrap(err, "export csv: write row")
		}
		n++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return n, eris.Wrap(err, "export csv: flush")
	}
	if err := f.Close(); err != nil {
		return n, eris.Wrap(err, "export csv: close file")
	}
	return n, nil
}

// jsonRow keys follow Columns.
type jsonRow struct {
	SchemeCode int    `json:"scheme_code"`
	SchemeName string `json:"scheme_name"`
	NAVDate    string `json:"nav_date"`
	NAV        string `json:"nav"`
}

func writeJSON(path string, navs iter.Seq[model.NAV]) (int, error) {
	rows := []jsonRow{}
	for nav := range navs {
		rows = append(rows, jsonRow{
			SchemeCode: nav.SchemeCode(),
			SchemeName: nav.SchemeName(),
			NAVDate:    nav.Date().Format(model.ISODateLayout),
			NAV:        nav.ValueText(),
		})
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return 0, eris.Wrap(err, "export json: marshal")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return 0, eris.Wrap(err, "export json: write file")
	}
	return len(rows), nil
}

func writeXLSX(path string, navs iter.Seq[model.NAV]) (int, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("NAV")
	if err != nil {
		return 0, eris.Wrap(err, "export xlsx: add sheet")
	}

	n := 0
	for nav := range navs {
		row := sheet.AddRow()
		row.AddCell().SetInt(nav.SchemeCode())
		for _, v := range nav.Fields()[1:] {
			row.AddCell().SetString(v)
		}
		n++
	}

	if err := f.Save(path); err != nil {
		return 0, eris.Wrap(err, "export xlsx: save")
	}
	return n, nil
}
