package supabase_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

const anonKey = "anon-key"

// fakeSupabase serves the handful of PostgREST and GoTrue endpoints the
// client uses, with row-level security that only lets signed-in users write.
type fakeSupabase struct {
	srv *httptest.Server

	mu            sync.Mutex
	rows          []map[string]any
	nextID        int
	accounts      map[string]string
	access        map[string]string
	refresh       map[string]string
	rejectRefresh bool
	failLogout    bool
	requests      []*http.Request
	expiresIn     int
	refreshCalls  int
	logoutCalls   int
}

func newFakeSupabase(t *testing.T) *fakeSupabase {
	t.Helper()
	f := &fakeSupabase{
		nextID:    100,
		accounts:  map[string]string{},
		access:    map[string]string{},
		refresh:   map[string]string{},
		expiresIn: 3600,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/items", f.handleItems)
	mux.HandleFunc("/auth/v1/token", f.handleToken)
	mux.HandleFunc("/auth/v1/logout", f.handleLogout)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeSupabase) URL() string {
	return f.srv.URL
}

func (f *fakeSupabase) seed(rows ...map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, rows...)
}

func (f *fakeSupabase) account(email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[email] = password
}

// issue registers a token pair for email without going through sign-in.
func (f *fakeSupabase) issue(email string) (access, refresh string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueLocked(email)
}

func (f *fakeSupabase) issueLocked(email string) (string, string) {
	access := "at-" + uuid.NewString()
	refresh := "rt-" + uuid.NewString()
	f.access[access] = email
	f.refresh[refresh] = email
	return access, refresh
}

func (f *fakeSupabase) lastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeSupabase) counts() (refresh, logout int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls, f.logoutCalls
}

func (f *fakeSupabase) rowCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeSupabase) bearerUser(r *http.Request) (string, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	email, ok := f.access[token]
	return email, ok
}

func (f *fakeSupabase) handleItems(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Clone(r.Context()))

	if r.Header.Get("apikey") != anonKey {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"code": "PGRST301", "message": "Invalid API key"})
		return
	}
	_, authed := f.bearerUser(r)

	switch r.Method {
	case http.MethodGet:
		rows := append([]map[string]any(nil), f.rows...)
		if strings.HasPrefix(r.URL.Query().Get("order"), "name.asc") {
			sort.SliceStable(rows, func(i, j int) bool {
				return fmt.Sprint(rows[i]["name"]) < fmt.Sprint(rows[j]["name"])
			})
		}
		writeJSON(w, http.StatusOK, rows)

	case http.MethodPost:
		if !authed {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"code":    "42501",
				"message": `new row violates row-level security policy for table "items"`,
			})
			return
		}
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"code": "PGRST102", "message": "Empty or invalid json"})
			return
		}
		f.nextID++
		row["id"] = f.nextID
		f.rows = append(f.rows, row)
		writeJSON(w, http.StatusCreated, []map[string]any{row})

	case http.MethodDelete:
		id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
		deleted := []map[string]any{}
		if authed {
			kept := f.rows[:0]
			for _, row := range f.rows {
				if fmt.Sprint(row["id"]) == id {
					deleted = append(deleted, row)
					continue
				}
				kept = append(kept, row)
			}
			f.rows = kept
		}
		writeJSON(w, http.StatusOK, deleted)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeSupabase) tokenResponse(email, access, refresh string) map[string]any {
	return map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
		"expires_in":    f.expiresIn,
		"expires_at":    time.Now().Add(time.Duration(f.expiresIn) * time.Second).Unix(),
		"user": map[string]any{
			"id":    uuid.NewSHA1(uuid.NameSpaceURL, []byte(email)).String(),
			"email": email,
		},
	}
}

func (f *fakeSupabase) handleToken(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	switch r.URL.Query().Get("grant_type") {
	case "password":
		if want, ok := f.accounts[body.Email]; !ok || want != body.Password {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":             "invalid_grant",
				"error_description": "Invalid login credentials",
			})
			return
		}
		access, refresh := f.issueLocked(body.Email)
		writeJSON(w, http.StatusOK, f.tokenResponse(body.Email, access, refresh))

	case "refresh_token":
		f.refreshCalls++
		email, ok := f.refresh[body.RefreshToken]
		if !ok || f.rejectRefresh {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":             "invalid_grant",
				"error_description": "Invalid Refresh Token: Refresh Token Not Found",
			})
			return
		}
		delete(f.refresh, body.RefreshToken)
		access, refresh := f.issueLocked(email)
		writeJSON(w, http.StatusOK, f.tokenResponse(email, access, refresh))

	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "unsupported grant type"})
	}
}

func (f *fakeSupabase) handleLogout(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++

	if f.failLogout {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"msg": "database unavailable"})
		return
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if _, ok := f.access[token]; !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "invalid JWT"})
		return
	}
	delete(f.access, token)
	w.WriteHeader(http.StatusNoContent)
}
