// Package watchlist loads scheme codes from a YAML file.
package watchlist

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Watchlist is a saved set of scheme codes:
//
//	codes:
//	  - 119551
//	  - 120503
type Watchlist struct {
	Codes []int `yaml:"codes"`
}

// Load reads a watchlist file. Every code must be positive.
func Load(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "watchlist: read %s", path)
	}

	var wl Watchlist
	if err := yaml.Unmarshal(data, &wl); err != nil {
		return nil, eris.Wrapf(err, "watchlist: parse %s", path)
	}
	for _, code := range wl.Codes {
		if code <= 0 {
			return nil, eris.Errorf("watchlist: invalid scheme code %d in %s", code, path)
		}
	}
	return &wl, nil
}

// Merge appends the watchlist codes after codes, keeping duplicates.
func (w *Watchlist) Merge(codes []int) []int {
	out := make([]int, 0, len(codes)+len(w.Codes))
	out = append(out, codes...)
	return append(out, w.Codes...)
}
