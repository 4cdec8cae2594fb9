// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package chat

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the conversation history. The ordered turn list is
// the only dialogue context the server receives; it rides on every query
// request.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// texts flattens turns to their text strings, the shape the confirm
// endpoint still expects for its chat field.
func texts(turns []Turn) []string {
	if len(turns) == 0 {
		return nil
	}
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = t.Text
	}
	return out
}
