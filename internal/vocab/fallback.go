package vocab

// fallbackWords is used whenever the vocabulary source cannot be read. It
// holds every word "theni fetch-images" has an icon for; mouth, hair and
// foot need pictures added by hand.
var fallbackWords = []string{
	"ear",
	"nose",
	"head",
	"eye",
	"hand",
	"leg",
	"body",
	"mouth",
	"hair",
	"foot",
}

// FallbackWords returns a copy of the built-in vocabulary.
func FallbackWords() []string {
	out := make([]string, len(fallbackWords))
	copy(out, fallbackWords)
	return out
}
