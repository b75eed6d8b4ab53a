package debate

import (
	"math/rand"
	"strings"

	"github.com/jllopis/council/pkg/llm"
)

// anonymizeReplies shuffles the prior round's replies and renders them as
// sequentially labeled proposal sections, so no backend can anchor on which
// competitor wrote which answer. The returned label->backend mapping exists
// for debug logging only and must not cross the round boundary.
func anonymizeReplies(replies []*llm.Reply) (string, map[string]string) {
	shuffled := make([]*llm.Reply, len(replies))
	copy(shuffled, replies)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	parts := make([]string, 0, len(shuffled))
	mapping := make(map[string]string, len(shuffled))
	for i, reply := range shuffled {
		label := proposalLabel(i)
		mapping[label] = reply.Backend
		parts = append(parts, "--- Proposal "+label+" ---\n"+reply.Content)
	}
	return strings.Join(parts, "\n\n"), mapping
}

// proposalLabel returns the label for the i-th shuffled proposal: A..Z,
// then AA, AB, and so on.
func proposalLabel(i int) string {
	label := ""
	for {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
		if i < 0 {
			return label
		}
	}
}
