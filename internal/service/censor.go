package service

import (
	"regexp"
	"strings"
)

// WordFilter masks configured words in a track label before publishing.
// Matching is case-insensitive on whole words; each hit is replaced by
// asterisks of the same length so the label keeps its shape.
type WordFilter struct {
	patterns []*regexp.Regexp
}

func NewWordFilter(words []string) *WordFilter {
	f := &WordFilter{}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
		if err != nil {
			continue
		}
		f.patterns = append(f.patterns, re)
	}
	return f
}

func (f *WordFilter) Filter(s string) string {
	for _, re := range f.patterns {
		s = re.ReplaceAllStringFunc(s, func(m string) string {
			return strings.Repeat("*", len(m))
		})
	}
	return s
}
