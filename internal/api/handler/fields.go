package handler

import (
	"reflect"
	"strings"
)

// jsonFieldName reports validation errors under the JSON name the client sent.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}
