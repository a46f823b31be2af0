package category

// Matcher scores word lists against a KeywordSet. It holds no mutable state
// and is safe for concurrent use.
type Matcher struct {
	set *KeywordSet
}

func NewMatcher(set *KeywordSet) *Matcher {
	return &Matcher{set: set}
}

// N returns the length of the vectors Score produces.
func (m *Matcher) N() int { return m.set.N() }

func (m *Matcher) Labels() []string { return m.set.Labels() }

// Score counts, per category, how many words are members of that category's
// keyword set. Counts are raw; a word listed under several categories counts
// once for each of them.
func (m *Matcher) Score(words []string) Vector {
	v := NewVector(m.set.N())
	for _, w := range words {
		for _, i := range m.set.index[w] {
			v[i]++
		}
	}
	return v
}
