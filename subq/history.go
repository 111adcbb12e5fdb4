package subq

// tailMessages returns up to n trailing entries of msgs, keeping only
// system/user/assistant turns and only their role and content. Tool turns
// and call metadata from the parent chat never leak into the subquery.
func tailMessages(msgs []Message, n int) []Message {
	if n <= 0 || len(msgs) == 0 {
		return nil
	}
	start := len(msgs) - n
	if start < 0 {
		start = 0
	}
	out := make([]Message, 0, len(msgs)-start)
	for _, m := range msgs[start:] {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant:
			out = append(out, Message{Role: m.Role, Content: m.Content})
		}
	}
	return out
}

// buildConversation assembles the initial message sequence: the filtered
// tail of the parent history (if requested) followed by the new prompt.
// No system message is ever synthesized; persona framing comes only from
// the included tail.
func buildConversation(history []Message, includeRecent int, prompt string) []Message {
	msgs := tailMessages(history, includeRecent)
	return append(msgs, Message{Role: RoleUser, Content: prompt})
}
