package project_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganot/atelier/internal/domain/project"
)

func TestValidate(t *testing.T) {
	valid := project.Project{ID: "p", Title: "P", Images: []string{"/1.jpg"}, Tags: []string{"a"}}
	require.NoError(t, project.Validate(valid))

	cases := map[string]func(p *project.Project){
		"missing id":    func(p *project.Project) { p.ID = " " },
		"missing title": func(p *project.Project) { p.Title = "" },
		"no images":     func(p *project.Project) { p.Images = nil },
		"blank image":   func(p *project.Project) { p.Images = []string{""} },
		"blank tag":     func(p *project.Project) { p.Tags = []string{""} },
		"reserved tag":  func(p *project.Project) { p.Tags = []string{project.AllTag} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := valid
			p.Images = append([]string(nil), valid.Images...)
			p.Tags = append([]string(nil), valid.Tags...)
			mutate(&p)
			require.ErrorIs(t, project.Validate(p), project.ErrInvalidInput)
		})
	}
}

func TestValidate_DuplicateTagsAllowed(t *testing.T) {
	p := project.Project{ID: "p", Title: "P", Images: []string{"/1.jpg"}, Tags: []string{"a", "a"}}
	require.NoError(t, project.Validate(p))
}
