package dataset

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var yearColumn = regexp.MustCompile(`^(\d{4})_population$`)

// NormalizeHeader canonicalises a column name: NFC, trimmed, BOM removed,
// and every whitespace run replaced by a single underscore.
func NormalizeHeader(h string) string {
	h = norm.NFC.String(strings.TrimPrefix(h, "\ufeff"))
	return strings.Join(strings.FieldsFunc(h, unicode.IsSpace), "_")
}

// columnMap records which header index feeds which record field.
type columnMap struct {
	name      int
	code      int
	continent int
	density   int
	area      int
	years     map[int]int // year -> column index
}

func mapColumns(header []string) columnMap {
	cm := columnMap{name: -1, code: -1, continent: -1, density: -1, area: -1, years: make(map[int]int)}

	for i, raw := range header {
		lower := strings.ToLower(NormalizeHeader(raw))

		switch {
		case lower == "country" || lower == "country/territory" || lower == "country_name":
			if cm.name < 0 {
				cm.name = i
			}
		case lower == "cca3" || lower == "iso_a3" || lower == "code":
			if cm.code < 0 {
				cm.code = i
			}
		case lower == "continent":
			cm.continent = i
		case strings.HasPrefix(lower, "density"):
			if cm.density < 0 {
				cm.density = i
			}
		case strings.HasPrefix(lower, "area"):
			if cm.area < 0 {
				cm.area = i
			}
		default:
			if m := yearColumn.FindStringSubmatch(lower); m != nil {
				year, _ := strconv.Atoi(m[1])
				cm.years[year] = i
			}
		}
	}
	return cm
}

// missing lists the required logical columns absent from the header.
func (cm columnMap) missing() []string {
	var out []string
	if cm.name < 0 {
		out = append(out, "Country")
	}
	if cm.continent < 0 {
		out = append(out, "Continent")
	}
	if len(cm.years) == 0 {
		out = append(out, "<YYYY>_Population")
	}
	return out
}
