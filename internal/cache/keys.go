package cache

import "strings"

// Key joins parts into a colon-separated cache key.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// FeedKey is the cache key for a user's ranked feed.
func FeedKey(userID string) string {
	return Key("feed", userID)
}

// TranslationKey is the cache key for a word translation.
func TranslationKey(word, from, to string) string {
	return Key("tr", from, to, word)
}
