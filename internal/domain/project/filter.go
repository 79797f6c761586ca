package project

import "strings"

// AllTag is the tag selector that disables tag filtering.
const AllTag = "전체"

// IsAllTag reports whether tag selects the whole catalog. The empty string
// is treated the same as AllTag.
func IsAllTag(tag string) bool {
	return tag == "" || tag == AllTag
}

// Matches reports whether p passes both the tag and the query predicate.
func Matches(p Project, tag, query string) bool {
	if !IsAllTag(tag) && !p.HasTag(tag) {
		return false
	}
	if query == "" {
		return true
	}
	return strings.Contains(searchText(p), strings.ToLower(query))
}

// Filter returns the projects matching tag and query in catalog order. The
// result never aliases catalog.
func Filter(catalog []Project, tag, query string) []Project {
	result := make([]Project, 0, len(catalog))
	for _, p := range catalog {
		if Matches(p, tag, query) {
			result = append(result, p)
		}
	}
	return result
}

func searchText(p Project) string {
	return strings.ToLower(strings.Join([]string{
		p.Title,
		p.Description,
		p.Type,
		strings.Join(p.Tags, " "),
	}, " "))
}
