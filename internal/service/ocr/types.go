package ocr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type response struct {
	ParsedResults         []parsedResult `json:"ParsedResults"`
	OCRExitCode           int            `json:"OCRExitCode"`
	IsErroredOnProcessing *bool          `json:"IsErroredOnProcessing"`
	ErrorMessage          message        `json:"ErrorMessage"`
	ErrorDetails          message        `json:"ErrorDetails"`
}

type parsedResult struct {
	ParsedText        *string `json:"ParsedText"`
	FileParseExitCode int     `json:"FileParseExitCode"`
	ErrorMessage      message `json:"ErrorMessage"`
}

// message accepts the provider's error fields, which arrive either as a
// string or as a list of strings.
type message string

func (m *message) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("decode message list: %w", err)
		}
		*m = message(strings.Join(parts, "; "))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	*m = message(s)
	return nil
}
