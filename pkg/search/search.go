// Package search filters posts by a free-text keyword, ignoring case and
// accents. Matching is a plain fold-and-substring pass over an in-memory
// snapshot; order of the input is preserved and there is no ranking.
package search

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"catedra/pkg/models"
)

// Fold normalizes s for matching: canonical decomposition, strip combining
// marks, lowercase. Fold is idempotent, so "João", "joao" and "JOÃO" all
// fold to "joao".
func Fold(s string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(chain, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Posts returns the posts matching keyword, in the order they were given.
// A post matches when any of these holds:
//   - keyword is a valid id and equals the post id verbatim (ids are not folded)
//   - the folded title contains the folded keyword
//   - the folded content contains the folded keyword
//   - the post's author name, folded, contains the folded keyword
//
// Author names are folded once per call into a set of matching ids, keeping
// the pass linear in users + posts. The full user rescan per invocation is
// fine for a school's worth of teachers; a bigger corpus would want a folded
// name column with an index instead.
func Posts(keyword string, posts []models.Post, users []models.User) []models.Post {
	folded := Fold(keyword)

	_, idErr := uuid.Parse(keyword)
	keywordIsID := idErr == nil

	authorMatch := make(map[string]struct{})
	for _, u := range users {
		if strings.Contains(Fold(u.Name), folded) {
			authorMatch[u.ID] = struct{}{}
		}
	}

	matched := make([]models.Post, 0)
	for _, p := range posts {
		if matches(p, keyword, folded, keywordIsID, authorMatch) {
			matched = append(matched, p)
		}
	}
	return matched
}

func matches(p models.Post, keyword, folded string, keywordIsID bool, authorMatch map[string]struct{}) bool {
	if keywordIsID && p.ID == keyword {
		return true
	}
	if strings.Contains(Fold(p.Title), folded) {
		return true
	}
	if strings.Contains(Fold(p.Content), folded) {
		return true
	}
	_, ok := authorMatch[p.AuthorID]
	return ok
}
