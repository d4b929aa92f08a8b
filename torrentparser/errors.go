package torrentparser

import "errors"

var (
	// ErrMissingInfo means the top-level dictionary has no info key
	ErrMissingInfo = errors.New("torrent file is missing info field")
	// ErrRootNotDict means the document decoded fine but is not a dictionary
	ErrRootNotDict = errors.New("torrent root is not a dictionary")
	// ErrInfoNotDict means the info key holds something other than a dictionary
	ErrInfoNotDict = errors.New("info field is not a dictionary")
)

// ValidationError reports well-formed bencode that is not a usable torrent.
// Malformed bencode is reported as *bencode.ParseError instead.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid torrent: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
