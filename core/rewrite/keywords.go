package rewrite

import "strings"

const (
	minPhraseLen      = 8
	maxPhrasesPerPost = 3
)

// linkPhrases extracts candidate link phrases from a post title:
// stop-words removed, then 3-word windows followed by 2-word windows,
// keeping phrases longer than 8 chars, capped at 3. The ordering is an
// implementation-defined heuristic; the only guarantees are determinism
// and the cap.
func (r *Rewriter) linkPhrases(title string) []string {
	var words []string
	for _, w := range strings.Fields(title) {
		if !r.stopWords[strings.ToLower(w)] {
			words = append(words, w)
		}
	}

	var phrases []string
	for _, n := range []int{3, 2} {
		for i := 0; i+n <= len(words); i++ {
			phrase := strings.Join(words[i:i+n], " ")
			if len(phrase) > minPhraseLen {
				phrases = append(phrases, phrase)
			}
			if len(phrases) >= maxPhrasesPerPost {
				return phrases
			}
		}
	}
	return phrases
}
