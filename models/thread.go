package models

// Thread is the set of messages transitively linked by reply/reference
// headers, ordered by date ascending. Computed on demand, never cached.
type Thread struct {
	Subject      string    `json:"subject"` // root subject, reply prefixes removed
	Messages     []Message `json:"messages"`
	Participants []string  `json:"participants"`
	MessageCount int       `json:"message_count"`
}

// Latest returns the most recent message in the thread, or nil when the
// thread is empty. Replies must thread off this message, not the root,
// so mail clients display them as the newest entry.
func (t *Thread) Latest() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return &t.Messages[len(t.Messages)-1]
}

// ReferenceChain returns the accumulated reference chain for a reply:
// the latest message's references with its own id appended if absent.
func (t *Thread) ReferenceChain() []string {
	latest := t.Latest()
	if latest == nil {
		return nil
	}

	chain := append([]string(nil), latest.References...)
	if latest.MessageID != "" && !contains(chain, latest.MessageID) {
		chain = append(chain, latest.MessageID)
	}
	return chain
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
