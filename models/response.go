package models

// APIResponse is the envelope every API endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Data    interface{} `json:"data"`
}
