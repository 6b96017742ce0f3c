// Package chatml renders role-tagged conversations into the ChatML prompt
// format understood by Qwen-family instruction-tuned models.
//
// Rendering is pure and deterministic: the same turn sequence always
// produces the same prompt string. Each recognized turn becomes a
// role-delimited block, and the output always ends with an open assistant
// marker so the engine generates from there.
package chatml

import "strings"

// Roles recognized by the renderer. Turns with any other role are
// silently skipped rather than rejected.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatML block delimiters.
const (
	markerStart = "<|im_start|>"
	markerEnd   = "<|im_end|>"
)

// Turn is a single message in a conversation. Order is meaningful;
// a Turn has no identity beyond its position in the sequence.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Render formats an ordered turn sequence as a ChatML prompt.
//
// For each turn with a recognized role it emits:
//
//	<|im_start|>ROLE\nCONTENT<|im_end|>\n
//
// and terminates the prompt with an open assistant block
// ("<|im_start|>assistant\n", no closing marker) to signal the engine
// to generate the assistant's reply. An empty turn sequence yields just
// the open assistant block.
func Render(turns []Turn) string {
	var b strings.Builder
	for _, t := range turns {
		switch t.Role {
		case RoleSystem, RoleUser, RoleAssistant:
			b.WriteString(markerStart)
			b.WriteString(t.Role)
			b.WriteString("\n")
			b.WriteString(t.Content)
			b.WriteString(markerEnd)
			b.WriteString("\n")
		default:
			// Unknown roles are dropped, not errors.
		}
	}
	b.WriteString(markerStart)
	b.WriteString(RoleAssistant)
	b.WriteString("\n")
	return b.String()
}

// System returns a system turn with the given content.
func System(content string) Turn {
	return Turn{Role: RoleSystem, Content: content}
}

// User returns a user turn with the given content.
func User(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// Assistant returns an assistant turn with the given content.
func Assistant(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}
