package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// localReply is the canned completion used when Gemini is disabled, so local
// development works without an API key.
func localReply(prompt string) string {
	p := strings.TrimSpace(prompt)
	if p == "" {
		p = "your question"
	}
	b := &strings.Builder{}
	fmt.Fprintf(b, "Here's a quick take on: %s\n\n", truncate(p, 60))
	fmt.Fprintln(b, "- This instance is running without a generative backend.")
	fmt.Fprintln(b, "- Set IS_GEMINI_ENABLED=1 and GEMINI_API_KEY to get real answers.")
	fmt.Fprintln(b, "\nIn the meantime: take a breath, your request was received just fine.")
	return b.String()
}

func streamLocalReply(ctx context.Context, prompt string, onDelta func(string)) string {
	full := localReply(prompt)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	i := 0
	for i < len(full) {
		if ctx.Err() != nil {
			break
		}
		step := 16 + r.Intn(32)
		if i+step > len(full) {
			step = len(full) - i
		}
		if onDelta != nil {
			onDelta(full[i : i+step])
		}
		i += step
		sleepWithContext(ctx, 40*time.Millisecond)
	}
	return full
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
