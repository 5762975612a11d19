package analysis

import "errors"

// ErrMissingURL indicates the request carried no url field.
var ErrMissingURL = errors.New("url is required")

// ErrInvalidRequest indicates a malformed request body.
var ErrInvalidRequest = errors.New("invalid request")

// ErrCacheMiss indicates no fresh cached result exists for a key.
var ErrCacheMiss = errors.New("cache miss")
