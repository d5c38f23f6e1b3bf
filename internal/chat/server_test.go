package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anatolykoptev/repnote/internal/agent"
	"github.com/anatolykoptev/repnote/internal/provider"
	"github.com/anatolykoptev/repnote/internal/toolreg"
)

// scriptProvider returns queued responses in order.
type scriptProvider struct {
	responses []*provider.Response
	errs      []error
	calls     int
}

func (s *scriptProvider) Chat(_ context.Context, _ []provider.Message, _ []provider.ToolDefinition) (*provider.Response, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i >= len(s.responses) {
		return nil, errors.New("scriptProvider exhausted")
	}
	return s.responses[i], nil
}

type noopTool struct{ name string }

func (t *noopTool) Name() string               { return t.name }
func (t *noopTool) Description() string        { return t.name }
func (t *noopTool) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (t *noopTool) Execute(_ context.Context, _ map[string]any) (string, error) {
	return "ok", nil
}

func newTestServer(p provider.Provider) *Server {
	reg := toolreg.NewRegistry()
	reg.Register(&noopTool{name: "log_interaction"})
	loop := agent.NewLoop(p, reg, 10, "You log CRM interactions.")
	return NewServer(loop, []string{"http://localhost:3000"})
}

func postChat(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	s.Register(mux)
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleChat_TextOnly(t *testing.T) {
	p := &scriptProvider{responses: []*provider.Response{
		{Content: "I can log HCP interactions for you.", FinishReason: "stop"},
	}}
	rec := postChat(t, newTestServer(p), `{"message":"what can you do?"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Response string         `json:"response"`
		Data     map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response != "I can log HCP interactions for you." {
		t.Errorf("response: got %q", resp.Response)
	}
	if len(resp.Data) != 0 {
		t.Errorf("data should be empty when nothing was logged: %v", resp.Data)
	}
}

func TestHandleChat_LoggedRecordInData(t *testing.T) {
	p := &scriptProvider{responses: []*provider.Response{
		{ToolCalls: []provider.ToolCall{{
			ID:   "c1",
			Name: "log_interaction",
			Args: map[string]any{
				"hcp_name":  "Dr. Smith",
				"summary":   "Discussed trial results",
				"sentiment": "Positive",
				"next_step": "Follow-up: Schedule meeting regarding Discussed trial results",
			},
		}}},
		{Content: "Logged the interaction with Dr. Smith.", FinishReason: "stop"},
	}}
	rec := postChat(t, newTestServer(p), `{"message":"met dr smith, went great"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Response string            `json:"response"`
		Data     map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data["hcp_name"] != "Dr. Smith" {
		t.Errorf("data.hcp_name: got %q", resp.Data["hcp_name"])
	}
	if resp.Data["interaction_type"] != "In-Person" {
		t.Errorf("data.interaction_type: got %q", resp.Data["interaction_type"])
	}
}

func TestHandleChat_BadBody(t *testing.T) {
	rec := postChat(t, newTestServer(&scriptProvider{}), "{nope")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleChat_EmptyMessageForwarded(t *testing.T) {
	p := &scriptProvider{responses: []*provider.Response{
		{Content: "What would you like to log?", FinishReason: "stop"},
	}}
	rec := postChat(t, newTestServer(p), `{"message":""}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("empty input is valid, got status %d", rec.Code)
	}
	if p.calls != 1 {
		t.Errorf("provider should still be asked, called %d times", p.calls)
	}
}

func TestHandleChat_GatewayFailure(t *testing.T) {
	p := &scriptProvider{errs: []error{errors.New("upstream down")}}
	rec := postChat(t, newTestServer(p), `{"message":"hello"}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "model gateway failure") {
		t.Errorf("body: got %s", rec.Body.String())
	}
}

func TestHandleChat_MethodNotAllowed(t *testing.T) {
	mux := http.NewServeMux()
	newTestServer(&scriptProvider{}).Register(mux)
	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	mux := http.NewServeMux()
	newTestServer(&scriptProvider{}).Register(mux)

	t.Run("preflight allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("status: got %d, want 204", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("allow-origin: got %q", got)
		}
	})

	t.Run("disallowed origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("allow-origin should be absent, got %q", got)
		}
	})
}
