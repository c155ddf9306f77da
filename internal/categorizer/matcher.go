package categorizer

import (
	"strings"

	"fjacquet/statement-import/internal/models"

	"github.com/agnivade/levenshtein"
)

// maxNameDistance is the largest normalized edit distance at which two
// category names are considered the same category.
const maxNameDistance = 0.25

// FindCategory returns the category named name for direction, comparing
// case-insensitively. Nil when absent.
func FindCategory(categories []models.Category, name string, direction models.Direction) *models.Category {
	want := normalize(name)
	for i := range categories {
		c := &categories[i]
		if c.Direction == direction && normalize(c.Name) == want {
			return c
		}
	}
	return nil
}

// SmartMatch is the fallback used when a category name has no exact
// match among the user's categories. It tries, in order, a close spelling
// of name, then a user category whose name stem occurs in description.
func SmartMatch(categories []models.Category, name, description string, direction models.Direction) *models.Category {
	if c := closestName(categories, name, direction); c != nil {
		return c
	}
	return stemInDescription(categories, description, direction)
}

func closestName(categories []models.Category, name string, direction models.Direction) *models.Category {
	want := normalize(name)
	if want == "" {
		return nil
	}
	var best *models.Category
	bestScore := maxNameDistance
	for i := range categories {
		c := &categories[i]
		if c.Direction != direction {
			continue
		}
		have := normalize(c.Name)
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return c
		}
		score := float64(levenshtein.ComputeDistance(want, have)) / float64(maxRunes(want, have))
		if score <= bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

func stemInDescription(categories []models.Category, description string, direction models.Direction) *models.Category {
	text := normalize(description)
	if text == "" {
		return nil
	}
	var best *models.Category
	bestLen := 0
	for i := range categories {
		c := &categories[i]
		if c.Direction != direction {
			continue
		}
		for _, word := range strings.Fields(normalize(c.Name)) {
			s := stem(word)
			if s == "" || !strings.Contains(text, s) {
				continue
			}
			if n := len([]rune(s)); n > bestLen {
				best, bestLen = c, n
			}
		}
	}
	return best
}

// stem keeps the first five runes of words of at least four runes; short
// words are too ambiguous to match on.
func stem(word string) string {
	r := []rune(strings.Trim(word, ".,;:()"))
	if len(r) < 4 {
		return ""
	}
	if len(r) > 5 {
		r = r[:5]
	}
	return string(r)
}

func maxRunes(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	if la > lb {
		return la
	}
	return lb
}
