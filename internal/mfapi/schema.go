package mfapi

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nav-cli/internal/model"
)

// schemeResponse is the body of GET /mf/{code}. Data is required; meta and
// status are optional.
type schemeResponse struct {
	Meta   *schemeMeta `json:"meta"`
	Data   *[]navNode  `json:"data"`
	Status string      `json:"status"`
}

type schemeMeta struct {
	FundHouse      string `json:"fund_house"`
	SchemeType     string `json:"scheme_type"`
	SchemeCategory string `json:"scheme_category"`
	SchemeName     string `json:"scheme_name"`
}

// navNode is one element of data. scheme_name is optional per element and
// takes precedence over meta.scheme_name.
type navNode struct {
	Date       *string `json:"date"`
	NAV        *string `json:"nav"`
	SchemeName *string `json:"scheme_name"`
}

func (r *schemeResponse) validate() error {
	if r.Data == nil {
		return eris.New("missing required field \"data\"")
	}
	for i, node := range *r.Data {
		if node.Date == nil {
			return eris.Errorf("data[%d]: missing required field \"date\"", i)
		}
		if node.NAV == nil {
			return eris.Errorf("data[%d]: missing required field \"nav\"", i)
		}
	}
	return nil
}

func (r *schemeResponse) schemeName() string {
	if r.Meta == nil {
		return ""
	}
	return strings.TrimSpace(r.Meta.SchemeName)
}

// toNAV passes date and nav through untouched; padded values fail validation.
func (n navNode) toNAV(schemeCode int, fallbackName string) (model.NAV, error) {
	name := fallbackName
	if n.SchemeName != nil {
		name = *n.SchemeName
	}
	return model.NewNAV(schemeCode, name, *n.Date, *n.NAV)
}
