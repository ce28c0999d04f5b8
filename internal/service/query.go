package service

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"mock_backend/internal/model"
)

// applyFilters keeps records matching every field filter and the full-text
// query, then sorts them. Input order is preserved for equal sort keys.
func applyFilters(records []model.Record, filters model.ListFilters) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if matchesAll(rec, filters) {
			out = append(out, rec)
		}
	}
	if len(filters.Sort) > 0 {
		sortRecords(out, filters.Sort)
	}
	return out
}

func matchesAll(rec model.Record, filters model.ListFilters) bool {
	for _, f := range filters.Filters {
		if !matchesFilter(rec, f) {
			return false
		}
	}
	if filters.Query != nil && *filters.Query != "" {
		return containsText(map[string]any(rec), strings.ToLower(*filters.Query))
	}
	return true
}

// matchesFilter ORs over the filter's values and, for array fields, over
// the array elements.
func matchesFilter(rec model.Record, f model.FieldFilter) bool {
	fieldValues := lookup(rec, f.Field)
	for _, want := range f.Values {
		for _, v := range fieldValues {
			if compareOp(v, f.Operator, want) {
				return true
			}
		}
	}
	return false
}

func compareOp(v any, op model.Operator, want string) bool {
	if v == nil {
		return false
	}
	got := model.ValueString(v)
	switch op {
	case model.OpNe:
		return got != want
	case model.OpLike:
		re, err := regexp.Compile("(?i)" + want)
		if err != nil {
			re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(want))
		}
		return re.MatchString(got)
	case model.OpGte:
		return compareValues(got, want) >= 0
	case model.OpLte:
		return compareValues(got, want) <= 0
	default:
		return got == want
	}
}

// compareValues compares numerically when both sides are numbers.
func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// lookup resolves a dot path and flattens a trailing array.
func lookup(rec model.Record, path string) []any {
	var cur any = map[string]any(rec)
	for _, part := range strings.Split(path, ".") {
		obj, ok := asObject(cur)
		if !ok {
			return nil
		}
		cur, ok = obj[part]
		if !ok {
			return nil
		}
	}
	if arr, ok := cur.([]any); ok {
		return arr
	}
	return []any{cur}
}

func asObject(v any) (map[string]any, bool) {
	switch obj := v.(type) {
	case map[string]any:
		return obj, true
	case model.Record:
		return obj, true
	default:
		return nil, false
	}
}

// containsText reports whether any string leaf contains q (already lowercased).
func containsText(v any, q string) bool {
	switch val := v.(type) {
	case string:
		return strings.Contains(strings.ToLower(val), q)
	case map[string]any:
		for _, child := range val {
			if containsText(child, q) {
				return true
			}
		}
	case model.Record:
		return containsText(map[string]any(val), q)
	case []any:
		for _, child := range val {
			if containsText(child, q) {
				return true
			}
		}
	}
	return false
}

func sortRecords(records []model.Record, keys []model.SortKey) {
	sort.SliceStable(records, func(i, j int) bool {
		for _, k := range keys {
			c := compareField(records[i], records[j], k.Field)
			if c == 0 {
				continue
			}
			if k.Order == model.SortDesc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareField orders missing values after present ones.
func compareField(a, b model.Record, field string) int {
	av, bv := first(lookup(a, field)), first(lookup(b, field))
	switch {
	case av == nil && bv == nil:
		return 0
	case av == nil:
		return 1
	case bv == nil:
		return -1
	}
	an, aNum := av.(json.Number)
	bn, bNum := bv.(json.Number)
	if aNum && bNum {
		return compareValues(an.String(), bn.String())
	}
	return strings.Compare(model.ValueString(av), model.ValueString(bv))
}

func first(values []any) any {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}
