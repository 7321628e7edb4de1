// Package country maps country names as stored on address records to
// ISO 3166-1 alpha-2 codes.
package country

import (
	"strings"

	"github.com/samber/lo"

	"github.com/rezonia/uae-einvoice/internal/model"
)

// Lookup resolves lower-cased country names to ISO codes
type Lookup struct {
	codes map[string]string
	known map[string]bool
}

// NewLookup builds a lookup from the default table overlaid with extra.
// Keys of extra are matched case-insensitively.
func NewLookup(extra map[string]string) *Lookup {
	codes := make(map[string]string, len(defaultCodes)+len(extra))
	for name, code := range defaultCodes {
		codes[name] = code
	}
	for name, code := range extra {
		codes[normalize(name)] = strings.ToUpper(strings.TrimSpace(code))
	}
	return &Lookup{
		codes: codes,
		known: lo.SliceToMap(lo.Values(codes), func(code string) (string, bool) {
			return code, true
		}),
	}
}

// Code returns the ISO code for name. An empty name yields "" so callers
// can report the country as missing. Unmapped names fall back to AE.
func (l *Lookup) Code(name string) string {
	key := normalize(name)
	if key == "" {
		return ""
	}
	if code, ok := l.codes[key]; ok {
		return code
	}
	if upper := strings.ToUpper(key); len(upper) == 2 && l.known[upper] {
		return upper
	}
	return model.LocalCountryCode
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var defaultCodes = map[string]string{
	"united arab emirates":     "AE",
	"uae":                      "AE",
	"saudi arabia":             "SA",
	"oman":                     "OM",
	"qatar":                    "QA",
	"kuwait":                   "KW",
	"bahrain":                  "BH",
	"egypt":                    "EG",
	"jordan":                   "JO",
	"lebanon":                  "LB",
	"iraq":                     "IQ",
	"iran":                     "IR",
	"turkey":                   "TR",
	"india":                    "IN",
	"pakistan":                 "PK",
	"bangladesh":               "BD",
	"sri lanka":                "LK",
	"nepal":                    "NP",
	"philippines":              "PH",
	"indonesia":                "ID",
	"malaysia":                 "MY",
	"singapore":                "SG",
	"thailand":                 "TH",
	"vietnam":                  "VN",
	"china":                    "CN",
	"hong kong":                "HK",
	"japan":                    "JP",
	"south korea":              "KR",
	"korea, republic of":       "KR",
	"australia":                "AU",
	"new zealand":              "NZ",
	"united kingdom":           "GB",
	"ireland":                  "IE",
	"france":                   "FR",
	"germany":                  "DE",
	"italy":                    "IT",
	"spain":                    "ES",
	"portugal":                 "PT",
	"netherlands":              "NL",
	"belgium":                  "BE",
	"switzerland":              "CH",
	"austria":                  "AT",
	"sweden":                   "SE",
	"norway":                   "NO",
	"denmark":                  "DK",
	"finland":                  "FI",
	"poland":                   "PL",
	"russia":                   "RU",
	"russian federation":       "RU",
	"ukraine":                  "UA",
	"united states":            "US",
	"united states of america": "US",
	"canada":                   "CA",
	"mexico":                   "MX",
	"brazil":                   "BR",
	"argentina":                "AR",
	"south africa":             "ZA",
	"nigeria":                  "NG",
	"kenya":                    "KE",
	"ethiopia":                 "ET",
	"morocco":                  "MA",
	"tunisia":                  "TN",
	"algeria":                  "DZ",
	"sudan":                    "SD",
	"yemen":                    "YE",
	"syria":                    "SY",
	"afghanistan":              "AF",
}
