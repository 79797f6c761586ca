package selection

import "errors"

var (
	// ErrNilProject indicates Open was called without a project.
	ErrNilProject = errors.New("no project given")
	// ErrNoImages indicates the project has an empty image sequence and
	// cannot be shown in the carousel.
	ErrNoImages = errors.New("project has no images")
	// ErrIndexOutOfRange indicates a carousel index outside [0, n).
	ErrIndexOutOfRange = errors.New("carousel index out of range")
)
