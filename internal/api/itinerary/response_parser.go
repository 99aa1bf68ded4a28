package itinerary

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/munishbansal2000/layla-sub001/internal/types"
)

// parseGenerationText recovers a structured itinerary from free-text model
// output. Recovery strategies run in order, stopping at the first success:
//
//  1. extract the fenced code block, else the substring between the first
//     '{' and the last '}'
//  2. direct parse
//  3. textual repairs (trailing commas, smart quotes, bare newlines), reparse
//  4. isolate and parse only the "days" array, discarding the rest
//
// When everything fails it returns a *types.ParseError carrying the byte
// offset and surrounding context reported by the JSON parser; the caller is
// expected to fall back to the data-source generator.
func parseGenerationText(raw string) (types.Itinerary, error) {
	extracted := extractJSONBlock(raw)

	var it types.Itinerary
	firstErr := json.Unmarshal([]byte(extracted), &it)
	if firstErr == nil {
		return it, nil
	}

	repaired := repairJSONText(extracted)
	if err := json.Unmarshal([]byte(repaired), &it); err == nil {
		return it, nil
	}

	if days, ok := isolateDaysArray(repaired); ok {
		return types.Itinerary{Days: days}, nil
	}

	return types.Itinerary{}, newParseError(extracted, firstErr)
}

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// extractJSONBlock pulls the payload out of surrounding prose: prefer a
// fenced code block, else everything between the first '{' and last '}'.
func extractJSONBlock(raw string) string {
	raw = strings.TrimSpace(raw)

	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		raw = strings.TrimSpace(m[1])
	}

	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first == -1 || last <= first {
		return raw
	}
	return strings.TrimSpace(raw[first : last+1])
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

var quoteReplacer = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"‘", "'",
	"’", "'",
)

// repairJSONText applies the textual repairs models most often need:
// trailing commas before closing brackets, smart quotes, and bare newlines
// inside the payload (reduced to spaces, which JSON treats as whitespace
// outside strings and which models emit unescaped inside them).
func repairJSONText(s string) string {
	s = quoteReplacer.Replace(s)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// isolateDaysArray finds the "days" key and bracket-matches its array so a
// damaged wrapper object doesn't take the whole payload down with it.
func isolateDaysArray(s string) ([]types.Day, bool) {
	keyIdx := strings.Index(s, `"days"`)
	if keyIdx == -1 {
		return nil, false
	}
	open := strings.Index(s[keyIdx:], "[")
	if open == -1 {
		return nil, false
	}
	open += keyIdx

	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				var days []types.Day
				if err := json.Unmarshal([]byte(s[open:i+1]), &days); err == nil && len(days) > 0 {
					return days, true
				}
				return nil, false
			}
		}
	}
	return nil, false
}

// newParseError decorates the parser's error with byte offset and a context
// window around the failure point.
func newParseError(payload string, err error) *types.ParseError {
	pe := &types.ParseError{Err: err}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		pe.Offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		pe.Offset = typeErr.Offset
	}

	if pe.Offset > 0 && int(pe.Offset) <= len(payload) {
		lo := int(pe.Offset) - 40
		if lo < 0 {
			lo = 0
		}
		hi := int(pe.Offset) + 40
		if hi > len(payload) {
			hi = len(payload)
		}
		pe.Context = payload[lo:hi]
	}
	return pe
}
