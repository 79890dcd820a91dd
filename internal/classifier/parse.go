package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse is returned when the model produced no text
var ErrEmptyResponse = errors.New("classifier: empty model response")

// ParseError carries the model output that could not be decoded
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("classifier: invalid JSON in model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseAnalysis decodes the model's answer, tolerating markdown code fences
func ParseAnalysis(text string) (*Analysis, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var a Analysis
	if err := json.Unmarshal([]byte(cleaned), &a); err != nil {
		return nil, &ParseError{Raw: text, Err: err}
	}
	if a.Tips == nil {
		a.Tips = []string{}
	}
	return &a, nil
}
