package mailbox

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"mailpilot/models"
	"mailpilot/utils"
)

var threadHeaderFields = []string{"Message-Id", "References", "In-Reply-To"}

var addressPattern = regexp.MustCompile(`[\w.+-]+@[\w.-]+`)

// ReconstructThread finds the conversation around seed by searching
// the folder for any message that references the seed's Message-ID
// chain or is referenced by it. One search covers all candidate IDs.
// Messages that fail to fetch or parse are skipped; the seed is
// always part of the result.
func ReconstructThread(sess Session, folder string, seed models.Message, maxDepth int) (*models.Thread, error) {
	messages := []models.Message{seed}

	candidates := candidateIDs(seed)
	if len(candidates) > 0 {
		if err := sess.SelectFolder(folder, true); err != nil {
			return nil, err
		}

		var fields, values []string
		for _, id := range candidates {
			for _, field := range threadHeaderFields {
				fields = append(fields, field)
				values = append(values, id)
			}
		}

		uids, err := sess.SearchHeaders(fields, values)
		if err != nil {
			return nil, err
		}
		// Depth is capped on server order; the seed survives the cut
		// regardless.
		if maxDepth > 0 && len(uids) > maxDepth {
			uids = uids[:maxDepth]
		}

		for _, uid := range uids {
			raw, err := sess.FetchRaw(uid)
			if err != nil {
				utils.Log.Warn("Skipping thread member %d: %v", uid, err)
				continue
			}
			messages = append(messages, Decode(fmt.Sprint(uid), raw))
		}
	}

	messages = dedupeMessages(messages)
	sortByDate(messages)

	return &models.Thread{
		Subject:      utils.NormalizeSubject(seed.Subject),
		Messages:     messages,
		Participants: participants(messages),
		MessageCount: len(messages),
	}, nil
}

// candidateIDs collects the seed's own ID plus everything it points
// at, deduplicated.
func candidateIDs(seed models.Message) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	add(seed.MessageID)
	add(seed.InReplyTo)
	for _, ref := range seed.References {
		add(ref)
	}
	return out
}

// dedupeMessages drops duplicates by Message-ID, falling back to the
// server ID for messages without one.
func dedupeMessages(messages []models.Message) []models.Message {
	seen := make(map[string]bool)
	out := messages[:0]
	for _, m := range messages {
		key := m.MessageID
		if key == "" {
			key = "id:" + m.ID
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// sortByDate orders oldest first. Messages with an unparseable date
// sort to the front.
func sortByDate(messages []models.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Date.Before(messages[j].Date)
	})
}

func participants(messages []models.Message) []string {
	seen := make(map[string]bool)
	var out []string
	collect := func(s string) {
		for _, addr := range addressPattern.FindAllString(s, -1) {
			addr = strings.ToLower(addr)
			if !seen[addr] {
				seen[addr] = true
				out = append(out, addr)
			}
		}
	}
	for _, m := range messages {
		collect(m.Sender)
		for _, r := range m.Recipients {
			collect(r)
		}
	}
	sort.Strings(out)
	return out
}
