package domain

import (
	"sort"
	"strings"
)

// ValidationErrors aggregates every failing field of a request into a single
// error value. The map key is the field name, the value a human-readable
// message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}
