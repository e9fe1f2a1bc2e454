package choropleth

import (
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// Categories returns the category code for each value in 'values' along with the ordered list of distinct
// category labels. Categories are sorted numerically when every (non-null) value is a number and lexically
// by their string form otherwise. Absent and null values are assigned the code -1.
func Categories(values []gjson.Result) ([]int, []string) {

	numeric := true

	for _, v := range values {

		if !hasValue(v) {
			continue
		}

		if v.Type != gjson.Number {
			numeric = false
			break
		}
	}

	codes := make([]int, len(values))

	if numeric {

		distinct := make([]float64, 0)
		seen := make(map[float64]bool)

		for _, v := range values {

			if !hasValue(v) {
				continue
			}

			n := v.Float()

			if !seen[n] {
				distinct = append(distinct, n)
				seen[n] = true
			}
		}

		slices.Sort(distinct)

		labels := make([]string, len(distinct))
		lookup := make(map[float64]int)

		for i, n := range distinct {
			lookup[n] = i
		}

		for i, v := range values {

			if !hasValue(v) {
				codes[i] = -1
				continue
			}

			code := lookup[v.Float()]
			codes[i] = code
			labels[code] = v.Raw
		}

		return codes, labels
	}

	distinct := make([]string, 0)
	seen := make(map[string]bool)

	for _, v := range values {

		if !hasValue(v) {
			continue
		}

		label := categoryLabel(v)

		if !seen[label] {
			distinct = append(distinct, label)
			seen[label] = true
		}
	}

	slices.SortFunc(distinct, strings.Compare)

	lookup := make(map[string]int)

	for i, label := range distinct {
		lookup[label] = i
	}

	for i, v := range values {

		if !hasValue(v) {
			codes[i] = -1
			continue
		}

		codes[i] = lookup[categoryLabel(v)]
	}

	return codes, distinct
}

func hasValue(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}

func categoryLabel(v gjson.Result) string {

	switch v.Type {
	case gjson.String:
		return v.String()
	default:
		return v.Raw
	}
}
