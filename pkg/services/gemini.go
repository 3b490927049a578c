package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"MindWell/pkg/config"
	"MindWell/pkg/logger"
)

// Completer is the single-call text-completion collaborator. Each call is a
// single-turn completion; no conversation history is sent.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// StreamCompleter is implemented by collaborators that can deliver the
// completion incrementally.
type StreamCompleter interface {
	Completer
	StreamComplete(ctx context.Context, prompt string, onDelta func(string)) (string, error)
}

type GeminiService struct {
	apiKey  string
	model   string
	enabled bool
}

func NewGeminiService() *GeminiService {
	return &GeminiService{
		apiKey:  config.GeminiAPIKey,
		model:   config.GeminiModel,
		enabled: config.IsGeminiEnabled,
	}
}

// Complete sends the prompt to Gemini and returns the generated text. When
// Gemini is disabled a local canned reply keeps the app usable without an
// API key.
func (s *GeminiService) Complete(ctx context.Context, prompt string) (string, error) {
	if !s.enabled {
		logger.L().Debugf("[gemini] disabled via config, serving local reply")
		return localReply(prompt), nil
	}
	if strings.TrimSpace(s.apiKey) == "" {
		return "", fmt.Errorf("GEMINI_API_KEY is not set")
	}

	models := []string{s.model, "gemini-2.0-flash"}
	tried := make(map[string]error)

	for _, m := range models {
		if strings.TrimSpace(m) == "" {
			continue
		}
		text, err := s.callGenerateContent(ctx, m, prompt)
		if err != nil && isRetriable(err) {
			sleepWithContext(ctx, 2*time.Second)
			text, err = s.callGenerateContent(ctx, m, prompt)
		}
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
		if err != nil {
			tried[m] = err
			logger.L().Warnf("[gemini] model %s failed: %v", m, err)
		}
	}
	return "", triedError("all gemini models failed", tried)
}

// StreamComplete streams the generated text through onDelta and returns the
// full reply. Falls back to a non-streaming call when the stream yields
// nothing.
func (s *GeminiService) StreamComplete(ctx context.Context, prompt string, onDelta func(string)) (string, error) {
	if !s.enabled {
		logger.L().Debugf("[gemini] disabled via config, streaming local reply")
		return streamLocalReply(ctx, prompt, onDelta), nil
	}
	if strings.TrimSpace(s.apiKey) == "" {
		return "", fmt.Errorf("GEMINI_API_KEY is not set")
	}

	models := []string{s.model, "gemini-2.0-flash"}
	tried := make(map[string]error)

	for _, m := range models {
		if strings.TrimSpace(m) == "" {
			continue
		}
		text, err := s.callStreamGenerateContent(ctx, m, prompt, onDelta)
		if err != nil && isRetriable(err) {
			sleepWithContext(ctx, 2*time.Second)
			text, err = s.callStreamGenerateContent(ctx, m, prompt, onDelta)
		}
		if err == nil {
			if strings.TrimSpace(text) != "" {
				return strings.TrimSpace(text), nil
			}
			if full, gerr := s.callGenerateContent(ctx, m, prompt); gerr == nil && strings.TrimSpace(full) != "" {
				if onDelta != nil {
					onDelta(full)
				}
				return strings.TrimSpace(full), nil
			}
		}
		if err != nil {
			tried[m] = err
			logger.L().Warnf("[gemini] stream model %s failed: %v", m, err)
		}
	}
	return "", triedError("all gemini stream models failed", tried)
}

func (s *GeminiService) callGenerateContent(ctx context.Context, model, prompt string) (string, error) {
	body, _ := json.Marshal(requestBody(prompt))

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", model, s.apiKey)
	logger.L().Debugf("[gemini] generateContent model=%s", model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read error: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBytes)))
	}

	var parsed map[string]any
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return strings.TrimSpace(string(respBytes)), nil
	}
	if text := candidateText(parsed); text != "" {
		return text, nil
	}
	return strings.TrimSpace(string(respBytes)), nil
}

func (s *GeminiService) callStreamGenerateContent(ctx context.Context, model, prompt string, onDelta func(string)) (string, error) {
	body, _ := json.Marshal(requestBody(prompt))

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:streamGenerateContent?key=%s", model, s.apiKey)
	logger.L().Debugf("[gemini] streamGenerateContent model=%s", model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	full := strings.Builder{}
	scanner := bufio.NewScanner(resp.Body)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), "data:") {
			line = strings.TrimSpace(line[5:])
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			continue
		}
		if txt := candidateText(obj); txt != "" {
			full.WriteString(txt)
			if onDelta != nil {
				onDelta(txt)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("stream read error: %w", err)
	}
	return full.String(), nil
}

func requestBody(prompt string) map[string]any {
	return map[string]any{
		"contents": []any{
			map[string]any{
				"role":  "user",
				"parts": []any{map[string]any{"text": prompt}},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.6,
			"maxOutputTokens": 1024,
			"topK":            40,
			"topP":            0.9,
		},
	}
}

// candidateText digs the first non-empty text part out of a generateContent
// response object.
func candidateText(parsed map[string]any) string {
	cands, ok := parsed["candidates"].([]any)
	if !ok || len(cands) == 0 {
		return ""
	}
	first, ok := cands[0].(map[string]any)
	if !ok {
		return ""
	}
	content, ok := first["content"].(map[string]any)
	if !ok {
		return ""
	}
	parts, ok := content["parts"].([]any)
	if !ok {
		return ""
	}
	for _, p := range parts {
		if pm, ok := p.(map[string]any); ok {
			if txt, ok := pm["text"].(string); ok && strings.TrimSpace(txt) != "" {
				return txt
			}
		}
	}
	return ""
}

func triedError(prefix string, tried map[string]error) error {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(": ")
	first := true
	for m, e := range tried {
		if !first {
			b.WriteString("; ")
		}
		first = false
		fmt.Fprintf(&b, "%s -> %v", m, e)
	}
	return errors.New(b.String())
}

func isRetriable(err error) bool {
	if err == nil {
		return false
	}
	e := strings.ToLower(err.Error())
	if strings.Contains(e, "status 503") || strings.Contains(e, "unavailable") {
		return true
	}
	if strings.Contains(e, "status 429") || strings.Contains(e, "resource_exhausted") || strings.Contains(e, "quota") {
		return true
	}
	return false
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
