package project

// Project is one portfolio entry. Projects are loaded once at startup and
// never mutated afterwards.
type Project struct {
	ID          string   `json:"id" yaml:"id" toml:"id"`
	Title       string   `json:"title" yaml:"title" toml:"title"`
	Year        int      `json:"year" yaml:"year" toml:"year"`
	Type        string   `json:"type" yaml:"type" toml:"type"`
	Cover       string   `json:"cover" yaml:"cover" toml:"cover"`
	Images      []string `json:"images" yaml:"images" toml:"images"`
	Description string   `json:"description" yaml:"description" toml:"description"`
	Area        string   `json:"area" yaml:"area" toml:"area"`
	Role        string   `json:"role" yaml:"role" toml:"role"`
	Report      *string  `json:"report,omitempty" yaml:"report,omitempty" toml:"report,omitempty"`
	Tags        []string `json:"tags" yaml:"tags" toml:"tags"`
}

// HasReport reports whether the project links a downloadable report.
func (p Project) HasReport() bool {
	return p.Report != nil && *p.Report != ""
}

// ImageCount returns the number of carousel images.
func (p Project) ImageCount() int {
	return len(p.Images)
}

// HasTag reports whether the project carries tag (exact, case-sensitive).
func (p Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Year       int      `json:"year"`
	Type       string   `json:"type"`
	Cover      string   `json:"cover"`
	ImageCount int      `json:"image_count"`
	Tags       []string `json:"tags"`
}

// Summarize converts a project to its listing form.
func Summarize(p Project) ProjectSummary {
	return ProjectSummary{
		ID:         p.ID,
		Title:      p.Title,
		Year:       p.Year,
		Type:       p.Type,
		Cover:      p.Cover,
		ImageCount: len(p.Images),
		Tags:       p.Tags,
	}
}
