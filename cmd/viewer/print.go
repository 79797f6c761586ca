package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ganot/atelier/internal/domain/project"
)

// printProjects writes the projects passing the filter as a colored
// listing, followed by the tag universe.
func printProjects(w io.Writer, projects []project.Project, tag, query string, maxTags int) error {
	if maxTags == 0 {
		maxTags = project.DefaultMaxTags
	}
	titleColor := color.New(color.FgMagenta, color.Bold).SprintFunc()
	metaColor := color.New(color.FgHiBlack).SprintFunc()
	tagColor := color.New(color.FgCyan).SprintFunc()
	headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()
	faintColor := color.New(color.FgHiBlack, color.Italic).SprintFunc()

	activeTag := tag
	if project.IsAllTag(activeTag) {
		activeTag = project.AllTag
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", headerColor("Tag:"), activeTag); err != nil {
		return err
	}
	if query != "" {
		if _, err := fmt.Fprintf(w, "%s %q\n", headerColor("Query:"), query); err != nil {
			return err
		}
	}

	visible := project.Filter(projects, tag, query)
	if len(visible) == 0 {
		_, err := fmt.Fprintln(w, faintColor("no projects match the current filter"))
		return err
	}
	for _, p := range visible {
		report := faintColor("no report")
		if p.HasReport() {
			report = *p.Report
		}
		if _, err := fmt.Fprintf(w, "\n%s %s\n  %s\n  %s\n  %s\n",
			titleColor(p.Title),
			metaColor(fmt.Sprintf("(%s, %d, %s)", p.ID, p.Year, p.Type)),
			p.Description,
			fmt.Sprintf("%d images · %s · %s · %s", len(p.Images), p.Area, p.Role, report),
			tagColor(strings.Join(p.Tags, " ")),
		); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%s %s\n", headerColor("Tags:"), strings.Join(project.Tags(projects, maxTags), " "))
	return err
}
