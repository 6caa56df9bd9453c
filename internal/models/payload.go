package models

// SuccessPayload is the 200 response body of both endpoints.
type SuccessPayload struct {
	Success       bool    `json:"success"`
	ExtractedText *string `json:"extractedText,omitempty"`
	Analysis      string  `json:"analysis"`
}

// FailurePayload is the error response body. Details is left out for
// validation failures.
type FailurePayload struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
