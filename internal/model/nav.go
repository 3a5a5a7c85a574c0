package model

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// Date layouts used across the importer.
const (
	UpstreamDateLayout = "02-01-2006" // mfapi.in "date" field
	ISODateLayout      = "2006-01-02" // output files
	CompactDateLayout  = "20060102"   // CLI flags and config
)

// ValidationError reports a NAV field that failed validation.
type ValidationError struct {
	Field string
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Input, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation returns true if err (or any error in its chain) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NAV is a single net asset value observation for one mutual fund scheme.
//
// Ordering and equality only look at (scheme code, date). Two observations
// for the same scheme and day compare equal even when their values or names
// differ. Callers that need value equality must compare Value explicitly.
type NAV struct {
	schemeCode int
	schemeName string
	date       time.Time
	value      decimal.Decimal
}

// NewNAV builds a NAV from the upstream representation: date as DD-MM-YYYY
// and value as a decimal numeral.
func NewNAV(schemeCode int, schemeName, date, value string) (NAV, error) {
	d, err := time.Parse(UpstreamDateLayout, date)
	if err != nil {
		return NAV{}, &ValidationError{Field: "date", Input: date, Err: err}
	}
	return build(schemeCode, schemeName, d, value)
}

// ParseFields is the inverse of Fields.
func ParseFields(fields []string) (NAV, error) {
	if len(fields) != 4 {
		return NAV{}, &ValidationError{
			Field: "fields",
			Input: fmt.Sprint(fields),
			Err:   eris.Errorf("expected 4 fields, got %d", len(fields)),
		}
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil {
		return NAV{}, &ValidationError{Field: "scheme_code", Input: fields[0], Err: err}
	}
	d, err := time.Parse(ISODateLayout, fields[2])
	if err != nil {
		return NAV{}, &ValidationError{Field: "nav_date", Input: fields[2], Err: err}
	}
	return build(code, fields[1], d, fields[3])
}

func build(schemeCode int, schemeName string, date time.Time, value string) (NAV, error) {
	v, err := decimal.NewFromString(value)
	if err != nil {
		return NAV{}, &ValidationError{Field: "nav", Input: value, Err: err}
	}
	if v.IsNegative() {
		return NAV{}, &ValidationError{Field: "nav", Input: value, Err: eris.New("must be non-negative")}
	}
	return NAV{
		schemeCode: schemeCode,
		schemeName: schemeName,
		date:       CivilDate(date),
		value:      v,
	}, nil
}

func (n NAV) SchemeCode() int        { return n.schemeCode }
func (n NAV) SchemeName() string     { return n.schemeName }
func (n NAV) Date() time.Time        { return n.date }
func (n NAV) Value() decimal.Decimal { return n.value }

// Compare orders by scheme code, then date.
func (n NAV) Compare(other NAV) int {
	if c := cmp.Compare(n.schemeCode, other.schemeCode); c != 0 {
		return c
	}
	return n.date.Compare(other.date)
}

func (n NAV) Less(other NAV) bool { return n.Compare(other) < 0 }

// Equal reports whether both observations share scheme code and date.
func (n NAV) Equal(other NAV) bool { return n.Compare(other) == 0 }

// ValueText renders the value at its source precision without an exponent.
func (n NAV) ValueText() string {
	places := -n.value.Exponent()
	if places < 0 {
		places = 0
	}
	return n.value.StringFixed(places)
}

// Fields returns scheme_code, scheme_name, nav_date, nav.
func (n NAV) Fields() []string {
	return []string{
		strconv.Itoa(n.schemeCode),
		n.schemeName,
		n.date.Format(ISODateLayout),
		n.ValueText(),
	}
}

func (n NAV) String() string {
	return fmt.Sprintf("%d@%s=%s", n.schemeCode, n.date.Format(ISODateLayout), n.ValueText())
}

// SortDescending sorts navs from highest (scheme code, date) to lowest.
func SortDescending(navs []NAV) {
	slices.SortStableFunc(navs, func(a, b NAV) int {
		return b.Compare(a)
	})
}

// CivilDate drops the clock and location of t, keeping its calendar day as UTC midnight.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseCompactDate parses a YYYYMMDD date.
func ParseCompactDate(s string) (time.Time, error) {
	t, err := time.Parse(CompactDateLayout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "parse date %q (want YYYYMMDD)", s)
	}
	return t, nil
}
