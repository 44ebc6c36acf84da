package medhub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultServerBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultServerBind)
	}

	u, err = parseBaseURL("http://example.com:9000/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchProfileSendsCookieAndDecodes(t *testing.T) {
	t.Parallel()

	var gotCookie string
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		if c, err := r.Cookie("token"); err == nil {
			gotCookie = c.Value
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ProfileResponse{
			User:    Profile{FirstName: "John", LastName: "Doe", Email: "john@example.com"},
			Address: Address{City: "Mumbai", PinCode: "400001"},
			Reminders: []Reminder{
				{ID: "r1", MedicineName: "Amoxicillin", Dosage: "500 mg", Time: "08:00"},
			},
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	c.SetToken("tok-123")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	bundle, err := c.FetchProfile(ctx)
	if err != nil {
		t.Fatalf("FetchProfile returned error: %v", err)
	}
	if bundle.User.Email != "john@example.com" {
		t.Fatalf("bundle user = %#v, want john@example.com", bundle.User)
	}
	if len(bundle.Reminders) != 1 || bundle.Reminders[0].ID != "r1" {
		t.Fatalf("bundle reminders = %#v, want 1 item id=r1", bundle.Reminders)
	}
	if gotCookie != "tok-123" {
		t.Fatalf("token cookie = %q, want tok-123", gotCookie)
	}
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("user agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}
}

func TestClient_FetchProfileErrorPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchProfile(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("FetchProfile error = %v, want *APIError", err)
	}
	if apiErr.Message != "not authenticated" {
		t.Fatalf("APIError message = %q, want payload error", apiErr.Message)
	}
}

func TestClient_LoginExtractsSessionCookie(t *testing.T) {
	t.Parallel()

	var gotEmail, gotPassword string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		_ = r.ParseForm()
		gotEmail = r.PostFormValue("email")
		gotPassword = r.PostFormValue("password")
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "session-abc", HttpOnly: true})
		// The backend redirects to the dashboard after login.
		w.Header().Set("Location", "/")
		w.WriteHeader(http.StatusFound)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	token, err := c.Login(context.Background(), "john@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token != "session-abc" {
		t.Fatalf("token = %q, want session-abc", token)
	}
	if gotEmail != "john@example.com" || gotPassword != "hunter22" {
		t.Fatalf("form = %q/%q, want submitted credentials", gotEmail, gotPassword)
	}
}

func TestClient_LoginSurfacesDetailMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "incorrect password"})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.Login(context.Background(), "john@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "incorrect password" {
		t.Fatalf("APIError = %#v, want 401 incorrect password", apiErr)
	}
}

func TestClient_AddReminderPostsBody(t *testing.T) {
	t.Parallel()

	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/reminders/add" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"_id":          "new-1",
			"medicineName": gotBody["medicineName"],
			"dosage":       gotBody["dosage"],
			"time":         gotBody["time"],
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	created, err := c.AddReminder(context.Background(), "Amoxicillin", "500 mg", "08:00")
	if err != nil {
		t.Fatalf("AddReminder returned error: %v", err)
	}
	if created.ID != "new-1" || created.MedicineName != "Amoxicillin" {
		t.Fatalf("created = %#v, want id=new-1", created)
	}
	if gotBody["time"] != "08:00" {
		t.Fatalf("posted time = %q, want 08:00", gotBody["time"])
	}
}

func TestClient_DeleteReminderRequiresID(t *testing.T) {
	t.Parallel()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if err := c.DeleteReminder(context.Background(), "  "); err == nil {
		t.Fatal("DeleteReminder with blank id should fail locally")
	}
	if requests != 0 {
		t.Fatalf("blank id issued %d requests, want 0", requests)
	}

	if err := c.DeleteReminder(context.Background(), "r42"); err != nil {
		t.Fatalf("DeleteReminder returned error: %v", err)
	}
	if requests != 1 {
		t.Fatalf("requests = %d, want 1", requests)
	}
}

func TestClient_SaveProfileAckAndEcho(t *testing.T) {
	t.Parallel()

	echo := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if echo {
			_ = json.NewEncoder(w).Encode(ProfileResponse{
				User:    Profile{FirstName: "John", LastName: "Doe", Email: "john@example.com", BloodGroup: "O+"},
				Address: Address{City: "Mumbai"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	bundle, err := c.SaveProfile(context.Background(), Profile{Email: "john@example.com"}, Address{})
	if err != nil {
		t.Fatalf("SaveProfile returned error: %v", err)
	}
	if bundle != nil {
		t.Fatalf("plain ack should return nil bundle, got %#v", bundle)
	}

	echo = true
	bundle, err = c.SaveProfile(context.Background(), Profile{Email: "john@example.com"}, Address{})
	if err != nil {
		t.Fatalf("SaveProfile returned error: %v", err)
	}
	if bundle == nil || bundle.User.BloodGroup != "O+" {
		t.Fatalf("echo bundle = %#v, want normalized record", bundle)
	}
}
