package extract

import (
	"encoding/json"
	"strings"
)

// Jobs extracts a JSON array of jobs from completion text.
//
// It locates the first balanced bracket span in the text and attempts to
// decode it as a job array. The boolean reports whether a span was found
// and decoded; when it is false the returned slice is empty. Callers
// cannot distinguish "no jobs mentioned" from "malformed output" through
// the slice alone, so the boolean exists as the diagnostic signal.
func Jobs(text string) ([]Job, bool) {
	span, ok := balancedSpan(text, '[', ']')
	if !ok {
		return []Job{}, false
	}

	var jobs []Job
	if err := json.Unmarshal([]byte(span), &jobs); err != nil {
		return []Job{}, false
	}
	if jobs == nil {
		jobs = []Job{}
	}
	return jobs, true
}

// IntentFrom extracts a single intent object from completion text.
//
// It locates the first balanced brace span and decodes it as an Intent.
// Fields absent in the decoded object stay nil; an absent intent value
// defaults to "search". When no span is found or decoding fails, the
// result is the fixed fallback (intent "other", all fields nil) and the
// boolean is false. IntentFrom never returns an error: the conversational
// endpoint must always answer with a structurally valid value.
func IntentFrom(text string) (Intent, bool) {
	span, ok := balancedSpan(text, '{', '}')
	if !ok {
		return Intent{Intent: IntentOther}, false
	}

	var in Intent
	if err := json.Unmarshal([]byte(span), &in); err != nil {
		return Intent{Intent: IntentOther}, false
	}
	if in.Intent == "" {
		in.Intent = IntentSearch
	}
	return in, true
}

// balancedSpan returns the first balanced open..close span in text.
// The scan tracks nesting depth explicitly and is aware of JSON string
// literals and escapes, so delimiters inside string values do not
// terminate the span. An unterminated span yields no match.
func balancedSpan(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
