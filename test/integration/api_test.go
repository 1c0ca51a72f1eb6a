package integration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/go-sql-driver/mysql"
	"github.com/memberhub/backend/internal/auth"
	"github.com/memberhub/backend/internal/config"
	"github.com/memberhub/backend/internal/handlers"
	"github.com/memberhub/backend/internal/middleware"
	"github.com/memberhub/backend/internal/repositories"
	"github.com/memberhub/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testDB     *sql.DB
	testRouter chi.Router
	testLogger *zap.Logger
)

// requireDB skips the test when no test database is reachable
func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	if testDB == nil {
		t.Skip("Skipping integration tests: test database unavailable")
	}
}

// cleanupTestData removes all test data
func cleanupTestData(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec("DELETE FROM posts")
	require.NoError(t, err, "Failed to cleanup posts")
	_, err = db.Exec("DELETE FROM users")
	require.NoError(t, err, "Failed to cleanup users")
	_, err = db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
	require.NoError(t, err, "Failed to reset users AUTO_INCREMENT")
	_, err = db.Exec("ALTER TABLE posts AUTO_INCREMENT = 1")
	require.NoError(t, err, "Failed to reset posts AUTO_INCREMENT")
}

// setupTestRouter wires the full API surface the way the server does
func setupTestRouter(db *sql.DB, logger *zap.Logger) chi.Router {
	tokenGenerator := auth.NewTokenGenerator("integration-test-secret", time.Hour)

	userRepo := repositories.NewUserRepository(db, logger)
	postRepo := repositories.NewPostRepository(db, logger)

	authService := services.NewAuthService(userRepo, tokenGenerator, logger)
	userService := services.NewUserService(userRepo, logger)
	postService := services.NewPostService(postRepo, logger)

	authHandler := handlers.NewAuthHandler(authService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	postHandler := handlers.NewPostHandler(postService, logger)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(tokenGenerator))
			userHandler.RegisterRoutes(r)
			postHandler.RegisterRoutes(r)
		})
	})

	return r
}

// TestMain sets up and tears down the test environment
func TestMain(m *testing.M) {
	var err error
	testLogger, err = zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}
	dsn := cfg.DSN()
	if cfg.Database.Host == "" {
		// Default test database connection
		dsn = "root:password@tcp(localhost:3306)/memberhub_test?parseTime=true&charset=utf8mb4"
	}

	db, err := sql.Open("mysql", dsn)
	if err == nil {
		if err = db.Ping(); err == nil {
			testDB = db
			setupTestSchema(testDB)
			testRouter = setupTestRouter(testDB, testLogger)
		} else {
			db.Close()
			fmt.Printf("Test database unreachable, integration tests will be skipped: %v\n", err)
		}
	}

	code := m.Run()

	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

// setupTestSchema creates the test database schema matching the migrations
func setupTestSchema(db *sql.DB) {
	db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			member_code VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY users_email_unique (email),
			UNIQUE KEY users_member_code_unique (member_code)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
	`)
	db.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
			title VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			user_id INT UNSIGNED NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX posts_user_id_index (user_id),
			CONSTRAINT posts_user_id_foreign FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
	`)
}

// doRequest performs a request against the test router and decodes the JSON body
func doRequest(t *testing.T, method, path, body, token string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&decoded), "response is not valid JSON")

	return w.Code, decoded
}

// registerAndLogin creates a user through the API and returns its ID and token
func registerAndLogin(t *testing.T, name, email, memberCode string) (int, string) {
	t.Helper()

	registerBody := fmt.Sprintf(
		`{"name":%q,"email":%q,"password":"password123","password_confirmation":"password123","member_code":%q}`,
		name, email, memberCode,
	)
	status, body := doRequest(t, http.MethodPost, "/api/auth/register", registerBody, "")
	require.Equal(t, http.StatusCreated, status, "register failed: %v", body)

	loginBody := fmt.Sprintf(`{"email":%q,"password":"password123"}`, email)
	status, body = doRequest(t, http.MethodPost, "/api/auth/login", loginBody, "")
	require.Equal(t, http.StatusOK, status, "login failed: %v", body)

	token, ok := body["token"].(string)
	require.True(t, ok, "login response has no token")

	user, ok := body["user"].(map[string]any)
	require.True(t, ok, "login response has no user")
	id, ok := user["id"].(float64)
	require.True(t, ok, "login user has no id")

	return int(id), token
}

func TestIntegration_RegisterAndLogin(t *testing.T) {
	requireDB(t)
	defer cleanupTestData(t, testDB)

	// Register
	status, body := doRequest(t, http.MethodPost, "/api/auth/register",
		`{"name":"Ann","email":"ann@example.com","password":"password123","password_confirmation":"password123","member_code":"MBR-001"}`, "")
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User created successfully", body["message"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ann@example.com", user["email"])
	assert.NotContains(t, user, "password_hash")

	// Duplicate email and member code rejected with field errors
	status, body = doRequest(t, http.MethodPost, "/api/auth/register",
		`{"name":"Ann Again","email":"ann@example.com","password":"password123","password_confirmation":"password123","member_code":"MBR-001"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "member_code")

	// Login
	status, body = doRequest(t, http.MethodPost, "/api/auth/login",
		`{"email":"ann@example.com","password":"password123"}`, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User logged in successfully", body["message"])
	assert.NotEmpty(t, body["token"])

	// Wrong password and unknown email answer identically
	status, wrongPass := doRequest(t, http.MethodPost, "/api/auth/login",
		`{"email":"ann@example.com","password":"wrongpassword"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, unknownUser := doRequest(t, http.MethodPost, "/api/auth/login",
		`{"email":"nobody@example.com","password":"password123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, wrongPass["message"], unknownUser["message"])
}

func TestIntegration_ProtectedRoutesRequireToken(t *testing.T) {
	requireDB(t)
	defer cleanupTestData(t, testDB)

	for _, path := range []string{"/api/users", "/api/posts"} {
		status, body := doRequest(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "authentication required", body["message"])
	}
}

func TestIntegration_UserCRUD(t *testing.T) {
	requireDB(t)
	defer cleanupTestData(t, testDB)

	_, token := registerAndLogin(t, "Admin", "admin@example.com", "MBR-ADMIN")

	// Create
	status, body := doRequest(t, http.MethodPost, "/api/users",
		`{"name":"Bob","email":"bob@example.com","password":"password123","password_confirmation":"password123","member_code":"MBR-002"}`, token)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User created successfully", body["message"])
	created, ok := body["data"].(map[string]any)
	require.True(t, ok)
	bobID := int(created["id"].(float64))

	// Show
	status, body = doRequest(t, http.MethodGet, fmt.Sprintf("/api/users/%d", bobID), "", token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User fetched successfully", body["message"])

	// List with substring search
	status, body = doRequest(t, http.MethodGet, "/api/users?q=bob", "", token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Users fetched successfully", body["message"])
	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	pagination, ok := body["pagination"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), pagination["current_page"])
	assert.Equal(t, float64(1), pagination["total_data"])

	// Update without a password keeps the old one working
	status, body = doRequest(t, http.MethodPut, fmt.Sprintf("/api/users/%d", bobID),
		`{"name":"Bobby","email":"bob@example.com","member_code":"MBR-002"}`, token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User updated successfully", body["message"])

	status, _ = doRequest(t, http.MethodPost, "/api/auth/login",
		`{"email":"bob@example.com","password":"password123"}`, "")
	assert.Equal(t, http.StatusOK, status)

	// Delete
	status, body = doRequest(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", bobID), "", token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User deleted successfully", body["message"])

	status, body = doRequest(t, http.MethodGet, fmt.Sprintf("/api/users/%d", bobID), "", token)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", body["message"])
}

func TestIntegration_PostOwnership(t *testing.T) {
	requireDB(t)
	defer cleanupTestData(t, testDB)

	_, annToken := registerAndLogin(t, "Ann", "ann@example.com", "MBR-001")
	_, bobToken := registerAndLogin(t, "Bob", "bob@example.com", "MBR-002")

	// Ann creates a post
	status, body := doRequest(t, http.MethodPost, "/api/posts",
		`{"title":"Ann's post","content":"Hello from Ann"}`, annToken)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Post created successfully", body["message"])
	created, ok := body["data"].(map[string]any)
	require.True(t, ok)
	postID := int(created["id"].(float64))

	// Bob can read it
	status, body = doRequest(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), "", bobToken)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post fetched successfully", body["message"])

	// Bob cannot modify or delete it
	status, body = doRequest(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", postID),
		`{"title":"Hijacked"}`, bobToken)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Post not found", body["message"])

	status, body = doRequest(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), "", bobToken)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Post not found", body["message"])

	// The list includes every user's posts with their owners attached
	status, body = doRequest(t, http.MethodGet, "/api/posts", "", bobToken)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Posts retrieved successfully", body["message"])
	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	post, ok := data[0].(map[string]any)
	require.True(t, ok)
	owner, ok := post["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ann@example.com", owner["email"])

	// Ann updates a single field and the other keeps its value
	status, body = doRequest(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", postID),
		`{"title":"Renamed"}`, annToken)
	assert.Equal(t, http.StatusOK, status)
	updated, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Renamed", updated["title"])
	assert.Equal(t, "Hello from Ann", updated["content"])

	// Ann deletes her post
	status, body = doRequest(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), "", annToken)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post deleted successfully", body["message"])
}

func TestIntegration_PostSearchAndPagination(t *testing.T) {
	requireDB(t)
	defer cleanupTestData(t, testDB)

	_, token := registerAndLogin(t, "Ann", "ann@example.com", "MBR-001")

	for i := 1; i <= 12; i++ {
		title := fmt.Sprintf("Post %d", i)
		content := "filler content"
		if i%2 == 0 {
			content = "searchable needle content"
		}
		status, _ := doRequest(t, http.MethodPost, "/api/posts",
			fmt.Sprintf(`{"title":%q,"content":%q}`, title, content), token)
		require.Equal(t, http.StatusCreated, status)
	}

	// Default page size is 10
	status, body := doRequest(t, http.MethodGet, "/api/posts", "", token)
	assert.Equal(t, http.StatusOK, status)
	data := body["data"].([]any)
	assert.Len(t, data, 10)
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(12), pagination["total_data"])
	assert.Equal(t, float64(2), pagination["total_page"])

	// Second page carries the remainder
	status, body = doRequest(t, http.MethodGet, "/api/posts?page=2", "", token)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 2)

	// Substring filter over content
	status, body = doRequest(t, http.MethodGet, "/api/posts?q=needle", "", token)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 6)
}
