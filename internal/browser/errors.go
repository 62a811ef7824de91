package browser

import "errors"

var (
	// ErrInvalidFolder is returned when descending into a blank or nested name.
	ErrInvalidFolder = errors.New("invalid folder name")
	// ErrUnknownFolder is returned when the folder is not visible at the current path.
	ErrUnknownFolder = errors.New("folder not visible at current path")
	// ErrNotVisible is returned when a click targets a leaf outside the visible list.
	ErrNotVisible = errors.New("asset not visible in current folder")
	// ErrPromptOpen is returned when a gallery click arrives while a prompt is open.
	ErrPromptOpen = errors.New("a prompt is open")
	// ErrNoReview is returned by review operations outside review mode.
	ErrNoReview = errors.New("not in review mode")
	// ErrNoSelection is returned when materializing without a finalized range.
	ErrNoSelection = errors.New("no finalized selection")
)
