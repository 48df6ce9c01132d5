// Package strings cleans comma separated lists from query strings and the
// environment.
package strings

import (
	"strings"
)

// SplitList splits every value on commas, trims each item and drops empty
// ones. Items are compared after fold and only the first occurrence is kept,
// in its folded form. A nil fold compares items as written.
//
//	SplitList([]string{"o+, a-", "O+"}, strings.ToUpper) // ["O+", "A-"]
func SplitList(values []string, fold func(string) string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range values {
		for item := range strings.SplitSeq(v, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if fold != nil {
				item = fold(item)
			}
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
