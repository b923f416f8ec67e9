package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lijamez/tonbot-plugin-trivia/internal/domain"
	"github.com/lijamez/tonbot-plugin-trivia/internal/infra/memory"
	"github.com/lijamez/tonbot-plugin-trivia/internal/trivia"
)

func TestWebSocketRoundFlow(t *testing.T) {
	manager := trivia.NewManager(
		memory.NewPackRepository(memory.NewStaticPackLoader(samplePacks()), time.Minute),
		trivia.Config{
			MaxQuestions:     5,
			QuestionDuration: 2 * time.Second,
			StartDelay:       10 * time.Millisecond,
		},
	)
	wsHandler := NewWSHandler(manager)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?channelId=c1&userId=u1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Pack listing works before any round.
	if err := conn.WriteJSON(map[string]any{"type": "list"}); err != nil {
		t.Fatalf("write list: %v", err)
	}
	typ, payload := readNext(conn, t, "packs")
	if names, ok := payload["names"].([]any); !ok || len(names) != 1 {
		t.Fatalf("expected one pack name, got %v (%s)", payload, typ)
	}

	if err := conn.WriteJSON(map[string]any{
		"type":    "play",
		"payload": map[string]any{"pack": "capitals", "difficulty": "medium"},
	}); err != nil {
		t.Fatalf("write play: %v", err)
	}

	readNext(conn, t, "roundStart")
	_, start := readNext(conn, t, "questionStart")
	if start["kind"] != string(domain.KindMultipleChoice) {
		t.Fatalf("expected multiple choice start, got %v", start)
	}

	if err := conn.WriteJSON(map[string]any{
		"type":    "say",
		"payload": map[string]any{"text": "0"},
	}); err != nil {
		t.Fatalf("write say: %v", err)
	}

	readNext(conn, t, "answerCorrect")
	_, end := readNext(conn, t, "questionEnd")
	win, ok := end["win"].(map[string]any)
	if !ok || win["winnerId"] != "u1" {
		t.Fatalf("expected u1 to win, got %v", end)
	}

	_, roundEnd := readNext(conn, t, "roundEnd")
	scores, ok := roundEnd["scores"].([]any)
	if !ok || len(scores) != 1 {
		t.Fatalf("expected one scorer, got %v", roundEnd)
	}
	top := scores[0].(map[string]any)
	if top["participantId"] != "u1" || top["top"] != true {
		t.Fatalf("expected u1 marked as top, got %v", top)
	}
}

func TestWebSocketRejectsDuplicatePlay(t *testing.T) {
	manager := trivia.NewManager(
		memory.NewPackRepository(memory.NewStaticPackLoader(samplePacks()), time.Minute),
		trivia.Config{QuestionDuration: 2 * time.Second, StartDelay: 10 * time.Millisecond},
	)
	wsHandler := NewWSHandler(manager)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?channelId=c2&userId=u1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	play := map[string]any{"type": "play", "payload": map[string]any{"pack": "capitals"}}
	if err := conn.WriteJSON(play); err != nil {
		t.Fatalf("write play: %v", err)
	}
	readNext(conn, t, "roundStart")

	if err := conn.WriteJSON(play); err != nil {
		t.Fatalf("write second play: %v", err)
	}
	typ, payload := readNext(conn, t, "")
	for typ != "error" {
		typ, payload = readNext(conn, t, "")
	}
	if payload["message"] != domain.ErrSessionActive.Error() {
		t.Fatalf("expected duplicate-session error, got %v", payload)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

func samplePacks() map[string]domain.Pack {
	return map[string]domain.Pack{
		"capitals": {
			Metadata: domain.PackMetadata{Name: "capitals"},
			Questions: []domain.Question{
				{
					ID:            "q1",
					Kind:          domain.KindMultipleChoice,
					Text:          "Capital of France?",
					Points:        2,
					Difficulty:    domain.DifficultyMedium,
					Choices:       []domain.Choice{{Text: "Paris"}, {Text: "Lyon"}},
					CorrectChoice: 0,
				},
			},
		},
	}
}
