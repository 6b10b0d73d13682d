// Package countries holds the static ISO 3166-1 alpha-2 catalogue the
// checkout engine resolves against. The catalogue is the single source of
// truth for which codes are valid and in which order countries are shown.
package countries

// Country is a catalogue entry
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// catalogue is ordered by display name; checkout country lists preserve
// this order regardless of how a link stored its restriction list.
var catalogue = []Country{
	{Code: "AR", Name: "Argentina"},
	{Code: "AU", Name: "Australia"},
	{Code: "AT", Name: "Austria"},
	{Code: "BD", Name: "Bangladesh"},
	{Code: "BE", Name: "Belgium"},
	{Code: "BR", Name: "Brazil"},
	{Code: "CM", Name: "Cameroon"},
	{Code: "CA", Name: "Canada"},
	{Code: "CL", Name: "Chile"},
	{Code: "CN", Name: "China"},
	{Code: "CO", Name: "Colombia"},
	{Code: "CI", Name: "Cote d'Ivoire"},
	{Code: "DK", Name: "Denmark"},
	{Code: "EG", Name: "Egypt"},
	{Code: "ET", Name: "Ethiopia"},
	{Code: "FI", Name: "Finland"},
	{Code: "FR", Name: "France"},
	{Code: "DE", Name: "Germany"},
	{Code: "GH", Name: "Ghana"},
	{Code: "GR", Name: "Greece"},
	{Code: "HK", Name: "Hong Kong"},
	{Code: "IN", Name: "India"},
	{Code: "ID", Name: "Indonesia"},
	{Code: "IE", Name: "Ireland"},
	{Code: "IL", Name: "Israel"},
	{Code: "IT", Name: "Italy"},
	{Code: "JP", Name: "Japan"},
	{Code: "KE", Name: "Kenya"},
	{Code: "MY", Name: "Malaysia"},
	{Code: "MX", Name: "Mexico"},
	{Code: "MA", Name: "Morocco"},
	{Code: "NL", Name: "Netherlands"},
	{Code: "NZ", Name: "New Zealand"},
	{Code: "NG", Name: "Nigeria"},
	{Code: "NO", Name: "Norway"},
	{Code: "PK", Name: "Pakistan"},
	{Code: "PE", Name: "Peru"},
	{Code: "PH", Name: "Philippines"},
	{Code: "PL", Name: "Poland"},
	{Code: "PT", Name: "Portugal"},
	{Code: "RW", Name: "Rwanda"},
	{Code: "SA", Name: "Saudi Arabia"},
	{Code: "SN", Name: "Senegal"},
	{Code: "SG", Name: "Singapore"},
	{Code: "ZA", Name: "South Africa"},
	{Code: "KR", Name: "South Korea"},
	{Code: "ES", Name: "Spain"},
	{Code: "SE", Name: "Sweden"},
	{Code: "CH", Name: "Switzerland"},
	{Code: "TZ", Name: "Tanzania"},
	{Code: "TH", Name: "Thailand"},
	{Code: "TR", Name: "Turkey"},
	{Code: "UG", Name: "Uganda"},
	{Code: "AE", Name: "United Arab Emirates"},
	{Code: "GB", Name: "United Kingdom"},
	{Code: "US", Name: "United States"},
	{Code: "VN", Name: "Vietnam"},
	{Code: "ZM", Name: "Zambia"},
	{Code: "ZW", Name: "Zimbabwe"},
}

var byCode = func() map[string]Country {
	m := make(map[string]Country, len(catalogue))
	for _, c := range catalogue {
		m[c.Code] = c
	}
	return m
}()

// All returns the full catalogue in display order. Callers must not mutate
// the returned slice.
func All() []Country {
	return catalogue
}

// Lookup returns the catalogue entry for code
func Lookup(code string) (Country, bool) {
	c, ok := byCode[code]
	return c, ok
}

// IsValid reports whether code is a known ISO 3166-1 alpha-2 code
func IsValid(code string) bool {
	_, ok := byCode[code]
	return ok
}
