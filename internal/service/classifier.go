package service

import (
	"strings"
	"tunestatus/internal/config"
)

// ownedTextMarker is the artist/track separator this system writes into
// every status text. Together with the sentinel emoji it fingerprints a
// status as ours.
const ownedTextMarker = " - "

// Normalize trims surrounding whitespace. Applied to both text and emoji
// before any comparison.
func Normalize(s string) string {
	return strings.TrimSpace(s)
}

// IsEmpty reports whether both fields are empty after normalization.
func IsEmpty(text, emoji string) bool {
	return Normalize(text) == "" && Normalize(emoji) == ""
}

// IsOwnedByScript reports whether the status looks like one this system set:
// the emoji matches either configured sentinel form and the text is empty or
// carries the " - " separator.
//
// This is a heuristic fingerprint, not a tag. A foreign status using the
// sentinel emoji with a " - "-infixed text is misclassified as owned; that
// false positive is accepted.
func IsOwnedByScript(text, emoji string, cfg config.StatusConfig) bool {
	e := Normalize(emoji)
	if e == "" {
		return false
	}
	if e != Normalize(cfg.Emoji) && e != Normalize(cfg.EmojiUnicode) {
		return false
	}
	t := Normalize(text)
	return t == "" || strings.Contains(t, ownedTextMarker)
}

// IsSafeToOverrideWhenPlaying reports whether the remote status is only
// partially set (either field empty). Independent of ownership: a partially
// set foreign status is still safe to overwrite.
func IsSafeToOverrideWhenPlaying(text, emoji string) bool {
	return Normalize(text) == "" || Normalize(emoji) == ""
}
