package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"MindWell/middleware"
	"MindWell/models"
	"MindWell/pkg/store"
)

type fakeCompleter struct {
	reply string
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.reply, nil
}

type testApp struct {
	r  *gin.Engine
	db *gorm.DB
}

func newTestApp(t *testing.T, ai *fakeCompleter) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	users := store.NewUserStore(db)
	convs := store.NewConversationStore(db)
	user, err := users.Register("App User", "app@example.com", "pw123", "other")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// stand-in for the session gate: attach the test user directly
	asUser := func(c *gin.Context) { c.Set(middleware.ContextUserKey, user) }

	r := gin.New()
	r.POST("/generate", asUser, Generate(convs, ai))
	r.GET("/conversations", asUser, ListConversations(convs))
	r.GET("/conversations/:conversation_id/messages", asUser, GetMessages(convs))
	r.DELETE("/conversations/:conversation_id", asUser, DeleteConversation(convs))

	return &testApp{r: r, db: db}
}

func (a *testApp) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func (a *testApp) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func TestGenerateDefaultSectionFlow(t *testing.T) {
	ai := &fakeCompleter{reply: "a lovely itinerary"}
	app := newTestApp(t, ai)

	w := app.postJSON(t, "/generate", gin.H{
		"prompt":          "plan my trip",
		"section":         "default",
		"conversation_id": "c1",
		"timestamp":       "2026-08-29T10:00:00Z",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Result != "a lovely itinerary" {
		t.Fatalf("expected completion in result, got %q", resp.Result)
	}

	// conversation created with the derived title
	lw := app.do(t, http.MethodGet, "/conversations")
	if lw.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", lw.Code)
	}
	var list []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(lw.Body.Bytes(), &list); err != nil {
		t.Fatalf("bad list body: %v", err)
	}
	if len(list) != 1 || list[0].ID != "c1" || list[0].Title != "plan my trip" {
		t.Fatalf("unexpected conversation list: %+v", list)
	}

	// both messages in order
	mw := app.do(t, http.MethodGet, "/conversations/c1/messages")
	if mw.Code != http.StatusOK {
		t.Fatalf("messages: expected 200, got %d", mw.Code)
	}
	var msgs []struct {
		Role      string `json:"role"`
		Content   string `json:"content"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(mw.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("bad messages body: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[0].Content != "plan my trip" {
		t.Fatalf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].Role != "gemini" || msgs[1].Content != "a lovely itinerary" {
		t.Fatalf("unexpected second message: %+v", msgs[1])
	}
}

func TestGenerateRequiresPrompt(t *testing.T) {
	app := newTestApp(t, &fakeCompleter{reply: "x"})
	w := app.postJSON(t, "/generate", gin.H{"section": "default", "conversation_id": "c1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without prompt, got %d", w.Code)
	}
}

func TestGenerateRequiresConversationIDForPersistedPath(t *testing.T) {
	app := newTestApp(t, &fakeCompleter{reply: "x"})
	w := app.postJSON(t, "/generate", gin.H{"prompt": "hello", "section": "default"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without conversation_id, got %d", w.Code)
	}
}

func TestGenerateGossipPersistsNothing(t *testing.T) {
	ai := &fakeCompleter{reply: "spicy take"}
	app := newTestApp(t, ai)

	w := app.postJSON(t, "/generate", gin.H{
		"prompt":  fmt.Sprintf("gossip prompt %s", uuid.NewString()),
		"section": "gossip",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var convCount, msgCount int64
	if err := app.db.Model(&models.Conversation{}).Count(&convCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if err := app.db.Model(&models.Message{}).Count(&msgCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if convCount != 0 || msgCount != 0 {
		t.Fatalf("gossip path persisted rows: %d conversations, %d messages", convCount, msgCount)
	}
}

func TestGenerateGossipUsesCache(t *testing.T) {
	ai := &fakeCompleter{reply: "cached take"}
	app := newTestApp(t, ai)

	prompt := fmt.Sprintf("cache me %s", uuid.NewString())
	for i := 0; i < 2; i++ {
		w := app.postJSON(t, "/generate", gin.H{"prompt": prompt, "section": "gossip"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	}
	if ai.calls != 1 {
		t.Fatalf("expected a single collaborator call, got %d", ai.calls)
	}
}

func TestDeleteEndpointIdempotent(t *testing.T) {
	app := newTestApp(t, &fakeCompleter{reply: "ok"})

	if w := app.postJSON(t, "/generate", gin.H{"prompt": "bye", "section": "default", "conversation_id": "gone"}); w.Code != http.StatusOK {
		t.Fatalf("setup generate failed: %d", w.Code)
	}
	for i := 0; i < 2; i++ {
		w := app.do(t, http.MethodDelete, "/conversations/gone")
		if w.Code != http.StatusOK {
			t.Fatalf("delete %d: expected 200, got %d", i, w.Code)
		}
		var resp struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Status != "deleted" {
			t.Fatalf("delete %d: unexpected body %s", i, w.Body.String())
		}
	}
}

func TestGetMessagesUnknownConversation(t *testing.T) {
	app := newTestApp(t, &fakeCompleter{reply: "ok"})
	w := app.do(t, http.MethodGet, "/conversations/none/messages")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
