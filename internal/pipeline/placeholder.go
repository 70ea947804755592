package pipeline

import (
	"strconv"
	"strings"
)

// Placeholder tokens are a reserved control character plus a tag and a
// monotonically increasing index. Control characters never appear in
// ordinary LaTeX source, so tokens survive every intermediate rewrite
// undisturbed. Math and code use disjoint marks so the two protection
// mechanisms cannot collide. The input is assumed not to contain these
// characters already; this is documented, not enforced.
const (
	mathTokenMark = "\x00"
	codeTokenMark = "\x01"

	mathTokenPrefix = mathTokenMark + "MATH_"
	codeTokenPrefix = codeTokenMark + "CODE_"
	verbTokenPrefix = codeTokenMark + "VERB_"
)

// tokenStore protects opaque sub-content from reinterpretation by later
// passes: each protected span is swapped for a unique token, and
// Restore substitutes the stored originals back in.
type tokenStore struct {
	prefix    string
	mark      string
	originals []string
}

func newTokenStore(prefix, mark string) *tokenStore {
	return &tokenStore{prefix: prefix, mark: mark}
}

// Add stores original and returns the token that now stands in for it.
func (s *tokenStore) Add(original string) string {
	token := s.Token(len(s.originals))
	s.originals = append(s.originals, original)
	return token
}

// Token returns the placeholder token for index i.
func (s *tokenStore) Token(i int) string {
	return s.prefix + strconv.Itoa(i) + s.mark
}

// Restore replaces every token with its stored original. Tokens are
// unique, so replacement order is immaterial.
func (s *tokenStore) Restore(text string) string {
	for i, original := range s.originals {
		text = strings.ReplaceAll(text, s.Token(i), original)
	}
	return text
}

// Len reports how many spans have been protected.
func (s *tokenStore) Len() int { return len(s.originals) }

func newMathStore() *tokenStore { return newTokenStore(mathTokenPrefix, mathTokenMark) }
func newCodeStore() *tokenStore { return newTokenStore(codeTokenPrefix, codeTokenMark) }

// Inline code spans (\verb and friends) get their own tag: they render
// as <code> inside prose, so the paragraph wrapper must not treat them
// as block-level the way it treats code listings.
func newInlineCodeStore() *tokenStore { return newTokenStore(verbTokenPrefix, codeTokenMark) }
