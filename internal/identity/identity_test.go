package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddlewareResolvesUserAndSession(t *testing.T) {
	tests := []struct {
		name        string
		userHeader  string
		sessionHdr  string
		wantUser    string
		wantSession string
	}{
		{name: "defaults", wantUser: "user-1", wantSession: DefaultSessionIDValue},
		{name: "headers", userHeader: "user-42", sessionHdr: "tab-7", wantUser: "user-42", wantSession: "tab-7"},
		{name: "invalid header falls back", userHeader: "bad id!", sessionHdr: "  ", wantUser: "user-1", wantSession: DefaultSessionIDValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser, gotSession string
			h := Middleware("user-1")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				gotUser = UserIDFromContext(r.Context())
				gotSession = SessionIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			if tt.userHeader != "" {
				req.Header.Set(UserHeaderName, tt.userHeader)
			}
			if tt.sessionHdr != "" {
				req.Header.Set(SessionHeaderName, tt.sessionHdr)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if gotUser != tt.wantUser {
				t.Fatalf("user = %q, want %q", gotUser, tt.wantUser)
			}
			if gotSession != tt.wantSession {
				t.Fatalf("session = %q, want %q", gotSession, tt.wantSession)
			}
		})
	}
}

func TestIPFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:4242"
	if got := IPFromRequest(req); got != "10.0.0.5" {
		t.Fatalf("IPFromRequest() = %q", got)
	}
}
