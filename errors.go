package hog

import "github.com/ivlev/hog/internal/preprocess"

// ErrInvalidInput is matched by every validation failure:
//
//	if errors.Is(err, hog.ErrInvalidInput) { ... }
var ErrInvalidInput = preprocess.ErrInvalidInput

// InvalidInputError describes which field of the image or Params was rejected.
type InvalidInputError = preprocess.InvalidInputError
