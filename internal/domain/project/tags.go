package project

// DefaultMaxTags bounds the tag universe when no explicit limit is set.
const DefaultMaxTags = 10

// Tags returns AllTag followed by every distinct tag in first-seen order.
// The result holds at most max entries, AllTag included; max <= 0 means no
// limit.
func Tags(catalog []Project, max int) []string {
	tags := []string{AllTag}
	seen := map[string]struct{}{AllTag: {}}
	for _, p := range catalog {
		for _, tag := range p.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	if max > 0 && len(tags) > max {
		tags = tags[:max]
	}
	return tags
}
