package project

import (
	"fmt"
	"strings"
)

// Validate checks the fields every catalog entry must carry. Images must be
// non-empty so the carousel never computes an index modulo zero.
func Validate(p Project) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: project %s: title is required", ErrInvalidInput, p.ID)
	}
	if len(p.Images) == 0 {
		return fmt.Errorf("%w: project %s: at least one image is required", ErrInvalidInput, p.ID)
	}
	for _, img := range p.Images {
		if strings.TrimSpace(img) == "" {
			return fmt.Errorf("%w: project %s: empty image reference", ErrInvalidInput, p.ID)
		}
	}
	for _, tag := range p.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: project %s: empty tag", ErrInvalidInput, p.ID)
		}
		if tag == AllTag {
			return fmt.Errorf("%w: project %s: tag %q is reserved", ErrInvalidInput, p.ID, AllTag)
		}
	}
	return nil
}

// ValidateCatalog validates every entry and rejects duplicate ids.
func ValidateCatalog(projects []Project) error {
	seen := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		if err := Validate(p); err != nil {
			return err
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
