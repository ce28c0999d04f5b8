package handler

import (
	"net/url"
	"sort"
	"strings"

	"mock_backend/internal/model"
)

var operatorSuffixes = []struct {
	suffix string
	op     model.Operator
}{
	{"_ne", model.OpNe},
	{"_like", model.OpLike},
	{"_gte", model.OpGte},
	{"_lte", model.OpLte},
}

// parseListFilters turns a query string into list filters. Reserved
// parameters starting with "_" other than _sort/_order (pagination, embeds)
// are ignored.
func parseListFilters(values url.Values) model.ListFilters {
	var filters model.ListFilters

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		switch {
		case key == "q":
			q := vals[0]
			filters.Query = &q
		case strings.HasPrefix(key, "_"):
			continue
		default:
			field, op := key, model.OpEq
			for _, s := range operatorSuffixes {
				if trimmed, ok := strings.CutSuffix(key, s.suffix); ok && trimmed != "" {
					field, op = trimmed, s.op
					break
				}
			}
			filters.Filters = append(filters.Filters, model.FieldFilter{Field: field, Operator: op, Values: vals})
		}
	}

	if sortParam := values.Get("_sort"); sortParam != "" {
		orders := strings.Split(values.Get("_order"), ",")
		for i, field := range strings.Split(sortParam, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			order := model.SortAsc
			if i < len(orders) && strings.EqualFold(strings.TrimSpace(orders[i]), string(model.SortDesc)) {
				order = model.SortDesc
			}
			filters.Sort = append(filters.Sort, model.SortKey{Field: field, Order: order})
		}
	}

	return filters
}
