package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseModelJSON decodes a JSON payload out of a model reply after stripping
// markdown code fences. Anything else around the payload is rejected.
func parseModelJSON(text string, v any) error {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("failed to parse model response as JSON: %w", err)
	}
	return nil
}
