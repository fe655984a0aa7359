package apperror

import "errors"

var (
	ErrInvalidMark      = errors.New("invalid mark")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrUnknownAction    = errors.New("unknown action")
)
