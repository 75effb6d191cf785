package types

// PoseEvent is one timestamped pose observation pushed by the browser client.
// Timestamps are seconds, monotonic within a session.
type PoseEvent struct {
	Pose       string  `json:"pose"`
	Confidence float64 `json:"confidence"`
	Timestamp  float64 `json:"timestamp"`
}

// SessionStatus is a read-only snapshot of the tracker state.
type SessionStatus struct {
	Active      bool   `json:"session_active"`
	PosesLogged int    `json:"poses_logged"`
	UserID      string `json:"current_user_uid"`
	DisplayName string `json:"current_user_display_name"`
}
