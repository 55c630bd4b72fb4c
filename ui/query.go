package ui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"hrpulse/app"
	"hrpulse/domain/core"
	"hrpulse/internal/errors"
)

// Query parameter names shared by the API and the HTML form
const (
	paramDepartment = "department"
	paramGender     = "gender"
	paramAgeMin     = "age_min"
	paramAgeMax     = "age_max"
	paramChart      = "chart"
)

// parseSelection reads the filter controls from a query string. A present
// multi-select key yields a non-nil slice of its non-empty values, so a lone
// empty value selects nothing. Blank age bounds are open.
func parseSelection(q url.Values) (app.Selection, error) {
	var sel app.Selection
	sel.Departments = multiSelect(q, paramDepartment)
	sel.Genders = multiSelect(q, paramGender)

	var err error
	if sel.AgeMin, err = bound(q, paramAgeMin); err != nil {
		return sel, err
	}
	if sel.AgeMax, err = bound(q, paramAgeMax); err != nil {
		return sel, err
	}
	return sel, nil
}

func multiSelect(q url.Values, key string) []string {
	values, ok := q[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func bound(q url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("%s must be a number", key), err)
	}
	return &v, nil
}

func chartIDs(q url.Values) []core.ChartID {
	var ids []core.ChartID
	for _, v := range q[paramChart] {
		if v = strings.TrimSpace(v); v != "" {
			ids = append(ids, core.ChartID(v))
		}
	}
	return ids
}

// filterQuery keeps only the filter parameters, for chart image links
func filterQuery(q url.Values) string {
	out := url.Values{}
	for _, key := range []string{paramDepartment, paramGender, paramAgeMin, paramAgeMax} {
		if values, ok := q[key]; ok {
			out[key] = values
		}
	}
	return out.Encode()
}

// etag is the strong validator for a filtered response
func etag(parts ...string) string {
	return `"` + strings.Join(parts, "-") + `"`
}

func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == tag || strings.TrimPrefix(candidate, "W/") == tag {
			return true
		}
	}
	return false
}

func parseChartParam(raw string) (core.ChartID, error) {
	id, err := core.ParseChartID(raw)
	if err != nil {
		return "", errors.InvalidInput("chart id is required", err)
	}
	return id, nil
}
