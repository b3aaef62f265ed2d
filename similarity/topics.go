package similarity

import "strings"

// TopicSimilarity is the classifier verdict for a pair of topic labels.
type TopicSimilarity struct {
	Score  float64
	Reason string
}

// Reason labels surfaced to the admin UI. The empty reason means the
// caller should fall back to a generic "NN% similar" label.
const (
	ReasonIdentical   = "Tópico idêntico"
	ReasonContained   = "Tópico contido no outro"
	ReasonSpelling    = "Tópicos muito similares (escrita)"
	ReasonSharedWords = "Tópicos com palavras em comum"
)

// ClassifyTopics scores how likely two topic labels describe the same
// legal fact. Checks run cheapest-first and the first hit wins:
// exact, substring, Levenshtein, Jaccard. Levenshtein is tried before
// Jaccard because near-identical short labels often differ by a few
// characters while sharing no whole-word tokens.
func ClassifyTopics(topicA, topicB string) TopicSimilarity {
	t1 := strings.ToLower(strings.TrimSpace(topicA))
	t2 := strings.ToLower(strings.TrimSpace(topicB))

	if t1 == t2 {
		return TopicSimilarity{Score: 1.0, Reason: ReasonIdentical}
	}

	if strings.Contains(t1, t2) || strings.Contains(t2, t1) {
		return TopicSimilarity{Score: 0.9, Reason: ReasonContained}
	}

	levenshtein := Levenshtein(t1, t2)
	if levenshtein > 0.8 {
		return TopicSimilarity{Score: levenshtein, Reason: ReasonSpelling}
	}

	jaccard := Jaccard(t1, t2)
	if jaccard > 0.5 {
		return TopicSimilarity{Score: jaccard, Reason: ReasonSharedWords}
	}

	return TopicSimilarity{Score: max(levenshtein, jaccard)}
}
