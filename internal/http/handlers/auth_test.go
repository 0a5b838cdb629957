package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wekesa360/todohub/internal/auth"
	"github.com/wekesa360/todohub/internal/config"
	"github.com/wekesa360/todohub/internal/domain/user"
	"github.com/wekesa360/todohub/internal/http/handlers"
	"github.com/wekesa360/todohub/internal/repo/memory"
	"github.com/wekesa360/todohub/internal/security"
)

func testConfig() config.Config {
	return config.Config{
		Env:                 "test",
		JWTSecret:           "test-secret-key",
		JWTAccessTTLMinutes: 20,
	}
}

func newAuthRouter(users handlers.UserStore) (*gin.Engine, *auth.Manager) {
	cfg := testConfig()
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())

	h := handlers.NewAuthHandler(users, jwtManager, cfg)

	r := gin.New()
	r.POST("/auth", h.Register)
	r.POST("/token", h.Login)

	return r, jwtManager
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

const registerAlice = `{
	"username": "alice",
	"email": "alice@example.com",
	"firstName": "Alice",
	"lastName": "Anderson",
	"password": "Passw0rd!",
	"role": "user"
}`

func TestRegisterCreatesUser(t *testing.T) {
	users := memory.NewUsersRepo()
	r, _ := newAuthRouter(users)

	w := postJSON(t, r, "/auth", registerAlice)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
	}

	var got user.User
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Username != "alice" || got.Role != "user" || !got.IsActive {
		t.Fatalf("unexpected user: %+v", got)
	}

	if bytes.Contains(w.Body.Bytes(), []byte("Passw0rd!")) {
		t.Fatal("response leaks the plaintext password")
	}
	if bytes.Contains(w.Body.Bytes(), []byte("$2")) {
		t.Fatal("response leaks the password hash")
	}

	stored, err := users.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("stored user missing: %v", err)
	}
	if !security.VerifyPassword(stored.HashedPassword, "Passw0rd!") {
		t.Fatal("stored hash does not verify the registered password")
	}
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	users := memory.NewUsersRepo()
	r, _ := newAuthRouter(users)

	if w := postJSON(t, r, "/auth", registerAlice); w.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", w.Code)
	}

	original, _ := users.GetByUsername(context.Background(), "alice")

	second := `{
		"username": "alice",
		"email": "other@example.com",
		"firstName": "Alice",
		"lastName": "Other",
		"password": "Different1!",
		"role": "user"
	}`

	w := postJSON(t, r, "/auth", second)

	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409, body=%s", w.Code, w.Body.String())
	}

	// the original record, hash included, must be untouched
	after, _ := users.GetByUsername(context.Background(), "alice")
	if after.HashedPassword != original.HashedPassword {
		t.Fatal("duplicate registration mutated the original password hash")
	}
	if after.Email != original.Email {
		t.Fatal("duplicate registration mutated the original user")
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "short username", body: `{"username":"al","email":"a@b.com","firstName":"Alice","lastName":"Anderson","password":"Passw0rd!"}`},
		{name: "short password", body: `{"username":"alice","email":"a@b.com","firstName":"Alice","lastName":"Anderson","password":"short"}`},
		{name: "bad role", body: `{"username":"alice","email":"a@b.com","firstName":"Alice","lastName":"Anderson","password":"Passw0rd!","role":"root"}`},
		{name: "bad email", body: `{"username":"alice","email":"not-an-email","firstName":"Alice","lastName":"Anderson","password":"Passw0rd!"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newAuthRouter(memory.NewUsersRepo())

			w := postJSON(t, r, "/auth", tt.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	users := memory.NewUsersRepo()
	r, jwtManager := newAuthRouter(users)

	if w := postJSON(t, r, "/auth", registerAlice); w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}

	registered, _ := users.GetByUsername(context.Background(), "alice")

	w := postJSON(t, r, "/token", `{"username":"alice","password":"Passw0rd!"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.TokenType != "bearer" {
		t.Errorf("token_type = %q, want bearer", resp.TokenType)
	}

	// validating the issued token recovers what was registered
	claims, err := jwtManager.VerifyAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}

	if claims.Username() != "alice" {
		t.Errorf("claims username = %q", claims.Username())
	}
	if claims.UserID != registered.ID {
		t.Errorf("claims user id = %q, want %q", claims.UserID, registered.ID)
	}
	if claims.Role != registered.Role {
		t.Errorf("claims role = %q, want %q", claims.Role, registered.Role)
	}

	// page flows get the token as a cookie too
	cookies := w.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == "access_token" && c.Value == resp.AccessToken {
			found = true
			if !c.HttpOnly {
				t.Error("access_token cookie should be HttpOnly")
			}
		}
	}
	if !found {
		t.Error("login should set the access_token cookie")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := memory.NewUsersRepo()
	r, _ := newAuthRouter(users)

	if w := postJSON(t, r, "/auth", registerAlice); w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}

	tests := []struct {
		name string
		body string
	}{
		{name: "wrong password", body: `{"username":"alice","password":"WrongPass1!"}`},
		{name: "unknown user", body: `{"username":"mallory","password":"Passw0rd!"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/token", tt.body)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401, body=%s", w.Code, w.Body.String())
			}
		})
	}
}

// deadlineCapturingUsers records how much of the store deadline is
// left when Create is actually reached.
type deadlineCapturingUsers struct {
	*memory.UsersRepo

	remaining time.Duration
}

func (d *deadlineCapturingUsers) Create(ctx context.Context, u user.User) (user.User, error) {
	if deadline, ok := ctx.Deadline(); ok {
		d.remaining = time.Until(deadline)
	}

	return d.UsersRepo.Create(ctx, u)
}

func TestRegisterStoreDeadlineExcludesHashing(t *testing.T) {
	users := &deadlineCapturingUsers{UsersRepo: memory.NewUsersRepo()}
	r, _ := newAuthRouter(users)

	w := postJSON(t, r, "/auth", registerAlice)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
	}

	// the 3s store budget starts after password hashing; bcrypt alone
	// costs tens of milliseconds, so an early-started context would
	// arrive here noticeably short
	if users.remaining < 2980*time.Millisecond {
		t.Fatalf("store deadline budget = %v, want ~3s", users.remaining)
	}
}

// failingUsersStore simulates a store whose backend is unreachable.
type failingUsersStore struct {
	err error
}

func (f *failingUsersStore) GetByUsername(context.Context, string) (user.User, error) {
	return user.User{}, f.err
}

func (f *failingUsersStore) GetByID(context.Context, string) (user.User, error) {
	return user.User{}, f.err
}

func (f *failingUsersStore) Create(context.Context, user.User) (user.User, error) {
	return user.User{}, f.err
}

func (f *failingUsersStore) UpdatePassword(context.Context, string, string) error {
	return f.err
}

func TestLoginStoreFailureIsInternalError(t *testing.T) {
	users := &failingUsersStore{err: errors.New("connection refused")}
	r, _ := newAuthRouter(users)

	w := postJSON(t, r, "/token", `{"username":"alice","password":"Passw0rd!"}`)

	// a store outage must not be reported as bad credentials
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500, body=%s", w.Code, w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("invalid_credentials")) {
		t.Fatal("store failure reported as a credential failure")
	}
	if bytes.Contains(w.Body.Bytes(), []byte("connection refused")) {
		t.Fatal("response leaks the underlying store error")
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	users := memory.NewUsersRepo()

	hash, _ := security.HashPassword("Passw0rd!")
	_, err := users.Create(context.Background(), user.User{
		ID:             "inactive-1",
		Username:       "bob",
		Email:          "bob@example.com",
		FirstName:      "Bob",
		LastName:       "Brown",
		HashedPassword: hash,
		Role:           user.RoleUser,
		IsActive:       false,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	r, _ := newAuthRouter(users)

	w := postJSON(t, r, "/token", `{"username":"bob","password":"Passw0rd!"}`)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
