package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nav-cli/internal/model"
)

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", eris.Errorf("unsupported output format %q (want csv, json or xlsx)", s)
	}
}

// DefaultPath returns <dir>/NAV_<YYYY-MM-DD>.<format>. An empty dir means
// the OS temp directory.
func DefaultPath(dir string, today time.Time, format Format) string {
	if dir == "" {
		dir = os.TempDir()
	}
	if format == "" {
		format = FormatCSV
	}
	name := fmt.Sprintf("NAV_%s.%s", today.Format(model.ISODateLayout), format)
	return filepath.Join(dir, name)
}
