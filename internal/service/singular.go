package service

import "strings"

// singular turns a plural collection name into the prefix of its foreign
// key: "users" -> "user", "categories" -> "category", "addresses" -> "address".
func singular(name string) string {
	switch {
	case strings.HasSuffix(name, "ies") && len(name) > 3:
		return strings.TrimSuffix(name, "ies") + "y"
	case strings.HasSuffix(name, "sses"), strings.HasSuffix(name, "shes"),
		strings.HasSuffix(name, "ches"), strings.HasSuffix(name, "xes"):
		return strings.TrimSuffix(name, "es")
	case strings.HasSuffix(name, "ss"):
		return name
	case strings.HasSuffix(name, "s"):
		return strings.TrimSuffix(name, "s")
	default:
		return name
	}
}

// foreignKey is the field a child record uses to point at its parent.
func foreignKey(parent string) string {
	return singular(parent) + "Id"
}
