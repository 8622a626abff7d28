package ratio

import (
	"github.com/google/go-querystring/query"
)

// ShareQuery is the query string form of a ratio, so a page can be reopened
// with the same values.
type ShareQuery struct {
	CoffeeGram string `url:"coffee-gram,omitempty"`
	WaterML    string `url:"water-ml,omitempty"`
	UseWaterML string `url:"use-water-ml,omitempty"`
}

// NewShareQuery copies the ratio fields out of v.
func NewShareQuery(v Values) ShareQuery {
	var q ShareQuery
	if v == nil {
		return q
	}
	q.CoffeeGram, _ = v.Lookup(FieldCoffeeGram)
	q.WaterML, _ = v.Lookup(FieldWaterML)
	q.UseWaterML, _ = v.Lookup(FieldUseWaterML)
	return q
}

// ShareURL returns path with the ratio fields of v appended as a query string.
func ShareURL(path string, v Values) (string, error) {
	vals, err := query.Values(NewShareQuery(v))
	if err != nil {
		return "", err
	}
	encoded := vals.Encode()
	if encoded == "" {
		return path, nil
	}
	return path + "?" + encoded, nil
}
