package scoring

import "errors"

// Validation errors for inputs on which scores are undefined. These are
// explicit rejections, never silently coerced to a default score.
var (
	ErrEmptyReference  = errors.New("empty reference transcript")
	ErrNoSegments      = errors.New("no recognition segments")
	ErrNoScorableWords = errors.New("no scorable words")
)
