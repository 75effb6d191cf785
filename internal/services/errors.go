package services

import "errors"

var (
	// ErrNoActiveSession is returned by End when no session is active or no
	// identity was recorded at start.
	ErrNoActiveSession = errors.New("no active session or user logged in")

	// ErrInvalidPoseData is returned by Ingest when an event is missing
	// required fields; nothing is appended in that case.
	ErrInvalidPoseData = errors.New("invalid pose data format")
)
