// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"pressdesk/internal/cache"
	"pressdesk/internal/database"
	"pressdesk/internal/middleware"
	"pressdesk/internal/models"
	"pressdesk/internal/notify"
	"pressdesk/internal/session"
	"pressdesk/internal/store"
	"pressdesk/internal/tree"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "pressdesk")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "pressdesk")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session, cache and notification keys.
		for _, pattern := range []string{"session:*", "cache:*", "notify:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB       *sql.DB
	Valkey   *redis.Client
	Sessions *session.Store
	Stores   Stores
	Cache    *cache.Cache
	Feed     *notify.FeedSink
	Admin    *Admin
	Auth     *Auth
	Public   *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	stores := Stores{
		Categories: store.NewCategoryStore(db, tree.DeleteReparent),
		Posts:      store.NewPostStore(db),
		Users:      store.NewUserStore(db),
		Customers:  store.NewCustomerStore(db),
		Settings:   store.NewSiteSettingStore(db),
		Stats:      store.NewStatsStore(db),
		Sessions:   sessions,
	}
	responseCache := cache.New(vk, time.Minute)
	feed := notify.NewFeedSink(vk, 0, 0)
	pages := PageSizes{Default: 10, Max: 50}

	return &testEnv{
		DB:       db,
		Valkey:   vk,
		Sessions: sessions,
		Stores:   stores,
		Cache:    responseCache,
		Feed:     feed,
		Admin:    NewAdmin(stores, responseCache, feed, feed, pages),
		Auth:     NewAuth(sessions, stores.Users),
		Public:   NewPublic(stores.Posts, stores.Categories, responseCache, pages),
	}
}

// unique returns s with a random suffix so tests sharing one database
// never collide on unique columns.
func unique(s string) string {
	return s + "-" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")
}

// testUser creates a throwaway user with the given role and removes it,
// with its posts, when the test ends.
func testUser(t *testing.T, env *testEnv, role models.Role) *models.User {
	t.Helper()
	email := unique(strings.ToLower(string(role))) + "@handler-test.local"
	u, err := env.Stores.Users.Create(context.Background(), email, "password123", "Test "+string(role), role)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM posts WHERE author_id = $1", u.ID)
		env.DB.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// sessionFor builds session data for u.
func sessionFor(u *models.User) *session.Data {
	return &session.Data{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}
}

// cleanCategories removes test categories by id. Call in t.Cleanup().
func cleanCategories(db *sql.DB, ids ...uuid.UUID) {
	for _, id := range ids {
		db.Exec("DELETE FROM categories WHERE id = $1", id)
	}
}

// cleanCustomers removes test customers by id. Call in t.Cleanup().
func cleanCustomers(db *sql.DB, ids ...uuid.UUID) {
	for _, id := range ids {
		db.Exec("DELETE FROM customers WHERE id = $1", id)
	}
}

// jsonRequest builds a request with body encoded as JSON. A nil body
// sends no payload.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withSession attaches session data to a request.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), sess))
}

// withURLParam adds a chi URL parameter to a request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// serve runs h and returns the recorded response.
func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, r)
	return rec
}

// decodeBody unmarshals the response body into T.
func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}
