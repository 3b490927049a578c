package utils

import (
	"math/rand"
	"strconv"
	"strings"
)

const titleWordLimit = 5

// TitleFromPrompt derives a conversation title from the first prompt: the
// first five whitespace-separated tokens joined by single spaces, with a
// trailing ellipsis when the prompt is longer than that.
func TitleFromPrompt(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) <= titleWordLimit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:titleWordLimit], " ") + "..."
}

// OTPCode returns a uniform 6-digit decimal code in [100000, 999999].
func OTPCode() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}
