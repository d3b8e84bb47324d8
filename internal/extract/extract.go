package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/clearview/internal/llm"
)

// Extractor runs the language-model analysis stages. Both stages demand
// schema-valid JSON and allow exactly one corrective retry before giving up.
type Extractor struct {
	provider llm.Provider
}

// New creates an Extractor backed by the given provider
func New(provider llm.Provider) *Extractor {
	return &Extractor{provider: provider}
}

// Models often wrap JSON in markdown fences despite instructions
var fencePattern = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// stripFences removes a surrounding markdown code fence, if any
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// decodeStrict parses fenced-or-bare JSON into dst, rejecting unknown
// top-level shapes via standard unmarshalling
func decodeStrict(raw string, dst interface{}) error {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return fmt.Errorf("empty response")
	}
	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
