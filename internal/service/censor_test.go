package service

import "testing"

func TestWordFilter(t *testing.T) {
	f := NewWordFilter([]string{"damn", "Hell"})

	cases := []struct{ in, want string }{
		{"Artist - Damn Song", "Artist - **** Song"},
		{"Highway to hell", "Highway to ****"},
		{"Clean Track", "Clean Track"},
		// Whole-word matching: no masking inside words.
		{"Shellfish - Damnation", "Shellfish - Damnation"},
	}
	for _, c := range cases {
		if got := f.Filter(c.in); got != c.want {
			t.Fatalf("Filter(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWordFilterEmptyList(t *testing.T) {
	f := NewWordFilter(nil)
	if got := f.Filter("anything goes"); got != "anything goes" {
		t.Fatalf("empty filter changed input: %q", got)
	}
}

func TestWordFilterSkipsBlankWords(t *testing.T) {
	f := NewWordFilter([]string{"  ", ""})
	if got := f.Filter("text"); got != "text" {
		t.Fatalf("blank words must be ignored: %q", got)
	}
}
