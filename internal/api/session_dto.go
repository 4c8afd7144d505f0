package api

// SessionResponse is the response for POST /v1/sessions.
type SessionResponse struct {
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
