package services

import (
	"encoding/json"
	"fmt"
)

// ExtractJSONObject returns the first balanced brace-delimited object in text,
// or ok=false when none exists. Braces inside JSON strings are ignored, so a
// value like {"note": "a } inside"} is carried through intact. Model output
// often wraps the object in markdown fences or prose; callers get just the
// object.
func ExtractJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}

	return "", false
}

// DecodeFirstObject extracts the first balanced JSON object from text and
// unmarshals it into target. Any parse failure is returned to the caller,
// which is expected to fall back to a deterministic default rather than
// propagate the error.
func DecodeFirstObject(text string, target interface{}) error {
	jsonStr, ok := ExtractJSONObject(text)
	if !ok {
		return fmt.Errorf("no JSON object found in response")
	}
	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}
