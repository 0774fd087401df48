package genparse

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Expected formats the distinct payloads recorded at position as
// "a, b or c". With expected false the unexpected variants are used.
// Texts are sorted; texts that do not start with a letter, '$', '_' or
// '<' are quoted so that punctuation reads as '+'. More than
// MaxVariantsToDisplay texts are cut off with "and more".
func (s *ErrorState) Expected(position int, expected bool) string {
	list := s.unexpected
	if expected {
		list = s.variants
	}

	var texts []string
	seen := make(map[string]struct{})
	for _, v := range list.All() {
		if v.position != position {
			continue
		}
		text := payloadText(v.payload)
		if text == "" {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		texts = append(texts, text)
	}
	slices.Sort(texts)

	var sb strings.Builder
	count := 0
	for _, text := range texts {
		count++
		if count > 1 {
			if count > MaxVariantsToDisplay {
				sb.WriteString(" ")
				sb.WriteString(s.messages.AndMore)
				break
			}
			sb.WriteString(", ")
		}
		sb.WriteString(displayText(text))
	}
	out := sb.String()
	if count > 1 && count < MaxVariantsToDisplay {
		idx := strings.LastIndex(out, ", ")
		out = out[:idx] + " " + s.messages.Or + out[idx+1:]
	}
	return out
}

func displayText(text string) string {
	r, _ := utf8.DecodeRuneInString(text)
	if r == '<' || r == '$' || r == '_' || unicode.IsLetter(r) {
		return text
	}
	return "'" + text + "'"
}
