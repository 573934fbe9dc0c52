package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenhub/auth-service/internal/core/domain"
	"github.com/screenhub/auth-service/internal/token"
)

// stubServer fakes the auth service. It records the Authorization header
// of the last request to each path.
func stubServer(t *testing.T, tok string) (*httptest.Server, map[string]string) {
	t.Helper()
	seenAuth := map[string]string{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", func(w http.ResponseWriter, r *http.Request) {
		seenAuth["/api/register"] = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.AuthResponse{
			Message: "User registered successfully",
			Token:   tok,
			User:    domain.User{ID: 1, UserID: "u1", Username: "alice", Email: "a@x.com"},
		})
	})
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		seenAuth["/api/login"] = r.Header.Get("Authorization")
		var req domain.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(domain.AuthResponse{
			Message: "Login successful",
			Token:   tok,
			User:    domain.User{ID: 1, UserID: "u1", Username: "alice", Email: "a@x.com"},
		})
	})
	mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, r *http.Request) {
		seenAuth["/api/profile"] = r.Header.Get("Authorization")
		if r.Header.Get("Authorization") != "Bearer "+tok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Access token required"})
			return
		}
		json.NewEncoder(w).Encode(domain.ProfileResponse{
			User: domain.User{ID: 1, UserID: "u1", Username: "alice", Email: "a@x.com"},
		})
	})
	mux.HandleFunc("GET /api/test-db", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "Database connection successful"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, seenAuth
}

func mintToken(t *testing.T) string {
	t.Helper()
	tok, err := token.NewManager("client-test-secret", 24*time.Hour).Generate("u1", "alice")
	require.NoError(t, err)
	return tok
}

func TestClient_RegisterStoresTokenAndAttachesBearer(t *testing.T) {
	tok := mintToken(t)
	srv, seenAuth := stubServer(t, tok)

	store := NewMemoryStore()
	c, err := New(srv.URL, store, nil)
	require.NoError(t, err)
	assert.False(t, c.IsAuthenticated())

	resp, err := c.Register(context.Background(), domain.RegisterRequest{
		UserID: "u1", Username: "alice", Email: "a@x.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)

	// Token persisted to the injected store and mirrored.
	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, tok, stored)
	assert.True(t, c.IsAuthenticated())

	// Register itself goes out unauthenticated.
	assert.Empty(t, seenAuth["/api/register"])

	// Subsequent requests carry the bearer credential automatically.
	profile, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.User.Username)
	assert.Equal(t, "Bearer "+tok, seenAuth["/api/profile"])
}

func TestClient_LoginFailureSurfacesServerMessage(t *testing.T) {
	srv, _ := stubServer(t, mintToken(t))

	c, err := New(srv.URL, nil, nil)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), domain.LoginRequest{Username: "alice", Password: "wrong"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.False(t, c.IsAuthenticated())
}

func TestClient_Logout(t *testing.T) {
	tok := mintToken(t)
	srv, _ := stubServer(t, tok)

	store := NewMemoryStore()
	c, err := New(srv.URL, store, nil)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), domain.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	require.True(t, c.IsAuthenticated())

	require.NoError(t, c.Logout())
	assert.False(t, c.IsAuthenticated())

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestClient_CurrentUserDecodesWithoutVerification(t *testing.T) {
	tok := mintToken(t)
	srv, _ := stubServer(t, tok)

	c, err := New(srv.URL, nil, nil)
	require.NoError(t, err)

	_, err = c.CurrentUser()
	require.Error(t, err)

	_, err = c.Login(context.Background(), domain.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	// The client never holds the signing secret; the claims come from an
	// unverified decode and are display-only.
	claims, err := c.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "u1", claims.UserID)
}

func TestClient_FileStoreResumesSession(t *testing.T) {
	tok := mintToken(t)
	srv, seenAuth := stubServer(t, tok)

	path := filepath.Join(t.TempDir(), "session")
	store := NewFileStore(path)

	c1, err := New(srv.URL, store, nil)
	require.NoError(t, err)
	_, err = c1.Login(context.Background(), domain.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	// A fresh client over the same store resumes the session without a
	// new login.
	c2, err := New(srv.URL, store, nil)
	require.NoError(t, err)
	assert.True(t, c2.IsAuthenticated())

	_, err = c2.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+tok, seenAuth["/api/profile"])
}

func TestClient_ExpiredTokenStillCountsAsAuthenticated(t *testing.T) {
	expired, err := token.NewManager("client-test-secret", -time.Minute).Generate("u1", "alice")
	require.NoError(t, err)

	srv, _ := stubServer(t, mintToken(t))

	store := NewMemoryStore()
	require.NoError(t, store.Save(expired))

	c, err := New(srv.URL, store, nil)
	require.NoError(t, err)

	// Presence check only: the client believes it is authenticated until
	// the server rejects the token.
	assert.True(t, c.IsAuthenticated())

	_, err = c.Profile(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestClient_TestDB(t *testing.T) {
	srv, _ := stubServer(t, mintToken(t))

	c, err := New(srv.URL, nil, nil)
	require.NoError(t, err)

	msg, err := c.TestDB(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Database connection successful", msg)
}
