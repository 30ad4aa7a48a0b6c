package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fitfam/internal/database"
	"fitfam/internal/models"
	"fitfam/internal/repository"
	"fitfam/internal/security"
	"fitfam/internal/service"
)

type testServer struct {
	t          *testing.T
	server     *httptest.Server
	tokens     *security.TokenManager
	users      *repository.UserRepository
	adminToken string
}

func newTestServer(t *testing.T, limiter *security.RateLimiter) *testServer {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(originalOutput) })

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations("../../migrations"))

	userRepo := repository.NewUserRepository(db, bcrypt.MinCost)
	familyRepo := repository.NewFamilyRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	workoutRepo := repository.NewWorkoutRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	postingRepo := repository.NewPostingRepository(db)
	resultRepo := repository.NewResultRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	tokens := security.NewTokenManager("test-secret", time.Hour)
	authService := service.NewAuthService(userRepo, tokens, nil)
	authz := service.NewAuthzService(membershipRepo)

	h := &Handlers{
		Middleware:  NewMiddleware(authService, limiter),
		Auth:        NewAuthHandler(authService, nil, ""),
		Users:       NewUserHandler(userRepo, authz),
		Families:    NewFamilyHandler(familyRepo, service.NewFamilyService(familyRepo, membershipRepo), authz),
		Memberships: NewMembershipHandler(membershipRepo, service.NewMembershipService(membershipRepo, userRepo, familyRepo, nil), authz),
		Workouts:    NewWorkoutHandler(workoutRepo, movementRepo, service.NewWorkoutService(workoutRepo, nil, nil)),
		Postings:    NewPostingHandler(postingRepo, authz),
		Results:     NewResultHandler(resultRepo, commentRepo, authz),
	}
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := httptest.NewServer(Logging(mux))
	t.Cleanup(server.Close)

	admin, err := userRepo.Create(context.Background(), models.NewUser{
		Email: "admin@example.com", Password: "password123", FirstName: "Ada", LastName: "Admin", IsAdmin: true,
	})
	require.NoError(t, err)
	adminToken, err := tokens.Issue(admin.ID, true)
	require.NoError(t, err)

	return &testServer{t: t, server: server, tokens: tokens, users: userRepo, adminToken: adminToken}
}

// do sends a JSON request and decodes the JSON response into a map
func (s *testServer) do(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(s.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// register creates a user through the API and returns its token and id
func (s *testServer) register(email, firstName string) (string, int64) {
	s.t.Helper()
	status, body := s.do(http.MethodPost, "/auth/register", "", map[string]any{
		"email": email, "password": "password123", "firstName": firstName, "lastName": "Test",
	})
	require.Equal(s.t, http.StatusCreated, status, body)
	user := body["user"].(map[string]any)
	return body["token"].(string), int64(user["id"].(float64))
}

func errorMessage(body map[string]any) string {
	detail, _ := body["error"].(map[string]any)
	msg, _ := detail["message"].(string)
	return msg
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	token, _ := s.register("ann@example.com", "Ann")
	assert.NotEmpty(t, token)

	t.Run("duplicate email", func(t *testing.T) {
		status, body := s.do(http.MethodPost, "/auth/register", "", map[string]any{
			"email": "ann@example.com", "password": "password123", "firstName": "Ann", "lastName": "Again",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Duplicate email: ann@example.com", errorMessage(body))
	})

	t.Run("validation", func(t *testing.T) {
		status, body := s.do(http.MethodPost, "/auth/register", "", map[string]any{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.NotEmpty(t, errorMessage(body))
	})

	t.Run("login", func(t *testing.T) {
		status, body := s.do(http.MethodPost, "/auth/login", "", map[string]any{
			"email": "ANN@example.com", "password": "password123",
		})
		assert.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body["token"])

		status, body = s.do(http.MethodPost, "/auth/login", "", map[string]any{
			"email": "ann@example.com", "password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid email/password", errorMessage(body))
	})

	t.Run("missing and bad tokens", func(t *testing.T) {
		status, _ := s.do(http.MethodGet, "/families", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)

		status, _ = s.do(http.MethodGet, "/families", "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("google sign-in not configured", func(t *testing.T) {
		status, _ := s.do(http.MethodGet, "/auth/google/start", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestUserRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	annToken, annID := s.register("ann@example.com", "Ann")
	_, bobID := s.register("bob@example.com", "Bob")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"self", http.MethodGet, fmt.Sprintf("/users/%d", annID), annToken, http.StatusOK},
		{"other user", http.MethodGet, fmt.Sprintf("/users/%d", bobID), annToken, http.StatusForbidden},
		{"admin reads anyone", http.MethodGet, fmt.Sprintf("/users/%d", bobID), s.adminToken, http.StatusOK},
		{"list needs admin", http.MethodGet, "/users", annToken, http.StatusForbidden},
		{"admin lists", http.MethodGet, "/users?firstName=bo", s.adminToken, http.StatusOK},
		{"unknown user", http.MethodGet, "/users/9999", s.adminToken, http.StatusNotFound},
		{"bad id", http.MethodGet, "/users/abc", s.adminToken, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := s.do(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.status, status, body)
		})
	}

	t.Run("filtered list", func(t *testing.T) {
		_, body := s.do(http.MethodGet, "/users?firstName=bo", s.adminToken, nil)
		users := body["users"].([]any)
		require.Len(t, users, 1)
		assert.Equal(t, "Bob", users[0].(map[string]any)["firstName"])
	})

	t.Run("update strips html and blocks status change", func(t *testing.T) {
		status, body := s.do(http.MethodPatch, fmt.Sprintf("/users/%d", annID), annToken, map[string]any{"bio": "<i>Rower</i>"})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, "Rower", body["user"].(map[string]any)["bio"])

		status, _ = s.do(http.MethodPatch, fmt.Sprintf("/users/%d", annID), annToken, map[string]any{"userStatus": "blocked"})
		assert.Equal(t, http.StatusForbidden, status)

		status, body = s.do(http.MethodPatch, fmt.Sprintf("/users/%d", annID), annToken, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "No data", errorMessage(body))
	})

	t.Run("delete", func(t *testing.T) {
		status, body := s.do(http.MethodDelete, fmt.Sprintf("/users/%d", bobID), s.adminToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(bobID), body["deleted"])
	})
}

func TestFamilyAndMembershipRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	annToken, annID := s.register("ann@example.com", "Ann")
	bobToken, bobID := s.register("bob@example.com", "Bob")

	status, body := s.do(http.MethodPost, "/families", annToken, map[string]any{"familyName": "Smiths"})
	require.Equal(t, http.StatusCreated, status, body)
	family := body["family"].(map[string]any)
	familyID := int64(family["id"].(float64))
	joinCode := family["joinCode"].(string)
	familyPath := fmt.Sprintf("/families/%d", familyID)

	status, _ = s.do(http.MethodGet, familyPath, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status, "non-members cannot read a family")

	status, _ = s.do(http.MethodPatch, familyPath, bobToken, map[string]any{"familyName": "Mine"})
	assert.Equal(t, http.StatusForbidden, status)

	t.Run("join by code", func(t *testing.T) {
		status, body := s.do(http.MethodPost, "/families/join", bobToken, map[string]any{"joinCode": "no-such-code-0000"})
		assert.Equal(t, http.StatusNotFound, status, body)

		status, body = s.do(http.MethodPost, "/families/join", bobToken, map[string]any{"joinCode": joinCode})
		require.Equal(t, http.StatusCreated, status, body)
		assert.Equal(t, models.MemStatusActive, body["membership"].(map[string]any)["memStatus"])

		status, _ = s.do(http.MethodGet, familyPath, bobToken, nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("membership visibility", func(t *testing.T) {
		_, body := s.do(http.MethodGet, "/memberships", bobToken, nil)
		assert.Len(t, body["memberships"].([]any), 1, "defaults to the actor's rows")

		_, body = s.do(http.MethodGet, fmt.Sprintf("/memberships?familyId=%d", familyID), bobToken, nil)
		assert.Len(t, body["memberships"].([]any), 2)

		status, _ := s.do(http.MethodGet, fmt.Sprintf("/memberships?userId=%d", annID), bobToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("only family admins change status", func(t *testing.T) {
		path := fmt.Sprintf("/memberships/%d/%d", bobID, familyID)
		status, _ := s.do(http.MethodPatch, path, bobToken, map[string]any{"isAdmin": true})
		assert.Equal(t, http.StatusForbidden, status)

		status, body := s.do(http.MethodPatch, path, annToken, map[string]any{"memStatus": "inactive"})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, "inactive", body["membership"].(map[string]any)["memStatus"])
	})

	t.Run("duplicate membership", func(t *testing.T) {
		status, body := s.do(http.MethodPost, "/memberships", annToken, map[string]any{"userId": bobID, "familyId": familyID})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, fmt.Sprintf("User %d is already a member of family: %d", bobID, familyID), errorMessage(body))
	})

	t.Run("delete membership", func(t *testing.T) {
		status, body := s.do(http.MethodDelete, fmt.Sprintf("/memberships/%d/%d", bobID, familyID), bobToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, models.MembershipKey(bobID, familyID), body["deleted"])

		status, body = s.do(http.MethodGet, fmt.Sprintf("/memberships/%d/%d", bobID, familyID), s.adminToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "No membership: "+models.MembershipKey(bobID, familyID), errorMessage(body))
	})

	t.Run("self add is pending", func(t *testing.T) {
		status, body := s.do(http.MethodPost, "/memberships", bobToken, map[string]any{
			"userId": bobID, "familyId": familyID, "memStatus": "active", "isAdmin": true,
		})
		require.Equal(t, http.StatusCreated, status, body)
		membership := body["membership"].(map[string]any)
		assert.Equal(t, models.MemStatusPending, membership["memStatus"])
		assert.Equal(t, false, membership["isAdmin"])

		status, _ = s.do(http.MethodGet, familyPath, bobToken, nil)
		assert.Equal(t, http.StatusForbidden, status, "pending members cannot read the family")

		_, body = s.do(http.MethodPost, "/workouts", bobToken, map[string]any{"name": "Grace"})
		workoutID := body["workout"].(map[string]any)["id"]
		status, _ = s.do(http.MethodPost, "/results", bobToken, map[string]any{
			"familyId": familyID, "workoutId": workoutID, "score": "2:10",
		})
		assert.Equal(t, http.StatusForbidden, status, "pending members cannot post results")

		status, _ = s.do(http.MethodGet, fmt.Sprintf("/memberships?familyId=%d", familyID), bobToken, nil)
		assert.Equal(t, http.StatusForbidden, status)

		status, body = s.do(http.MethodPatch, fmt.Sprintf("/memberships/%d/%d", bobID, familyID), annToken, map[string]any{"memStatus": "active"})
		require.Equal(t, http.StatusOK, status, body)

		status, _ = s.do(http.MethodGet, familyPath, bobToken, nil)
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestWorkoutResultAndCommentRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	annToken, annID := s.register("ann@example.com", "Ann")
	bobToken, _ := s.register("bob@example.com", "Bob")

	_, body := s.do(http.MethodPost, "/families", annToken, map[string]any{"familyName": "Smiths"})
	familyID := body["family"].(map[string]any)["id"].(float64)

	status, body := s.do(http.MethodPost, "/workouts", annToken, map[string]any{
		"name": "Cindy", "description": "AMRAP 20 pull-ups push-ups squats", "createBy": 9999,
	})
	require.Equal(t, http.StatusCreated, status, body)
	workout := body["workout"].(map[string]any)
	workoutID := workout["id"].(float64)
	assert.Equal(t, float64(annID), workout["createBy"], "createBy is forced to the actor")

	t.Run("search", func(t *testing.T) {
		_, body := s.do(http.MethodGet, "/workouts?keyword=squat", bobToken, nil)
		assert.Len(t, body["workouts"].([]any), 1)

		_, body = s.do(http.MethodGet, "/workouts?keyword=deadlift", bobToken, nil)
		assert.Empty(t, body["workouts"].([]any))

		status, _ := s.do(http.MethodGet, "/workouts?featuredDate=yesterday", bobToken, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("only the creator edits", func(t *testing.T) {
		path := fmt.Sprintf("/workouts/%v", workoutID)
		status, _ := s.do(http.MethodPatch, path, bobToken, map[string]any{"name": "Bob's Cindy"})
		assert.Equal(t, http.StatusForbidden, status)

		status, body := s.do(http.MethodPatch, path, annToken, map[string]any{"scoreType": "Rounds + Reps"})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, "Rounds + Reps", body["workout"].(map[string]any)["scoreType"])
	})

	t.Run("postings are scoped to members", func(t *testing.T) {
		status, _ := s.do(http.MethodPost, "/postings", bobToken, map[string]any{"familyId": familyID, "workoutId": workoutID})
		assert.Equal(t, http.StatusForbidden, status)

		status, body := s.do(http.MethodPost, "/postings", annToken, map[string]any{
			"familyId": familyID, "workoutId": workoutID, "postDate": "20240305",
		})
		require.Equal(t, http.StatusCreated, status, body)
		posting := body["posting"].(map[string]any)
		assert.Equal(t, "Cindy", posting["workoutName"])
		assert.Equal(t, "20240305", posting["postDate"])

		status, _ = s.do(http.MethodGet, "/postings", annToken, nil)
		assert.Equal(t, http.StatusBadRequest, status, "non-admins must filter by family")

		_, body = s.do(http.MethodGet, fmt.Sprintf("/postings?familyId=%v", familyID), annToken, nil)
		assert.Len(t, body["postings"].([]any), 1)

		status, _ = s.do(http.MethodGet, fmt.Sprintf("/postings/%v", posting["id"]), bobToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	var resultID float64
	t.Run("results", func(t *testing.T) {
		status, _ := s.do(http.MethodPost, "/results", bobToken, map[string]any{"familyId": familyID, "workoutId": workoutID})
		assert.Equal(t, http.StatusForbidden, status)

		status, body := s.do(http.MethodPost, "/results", annToken, map[string]any{
			"familyId": familyID, "workoutId": workoutID, "score": "18+4",
		})
		require.Equal(t, http.StatusCreated, status, body)
		result := body["result"].(map[string]any)
		resultID = result["id"].(float64)
		assert.Equal(t, float64(annID), result["userId"])
		assert.Equal(t, "Cindy", result["workoutName"])

		status, _ = s.do(http.MethodPatch, fmt.Sprintf("/results/%v", resultID), bobToken, map[string]any{"score": "30"})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("comments", func(t *testing.T) {
		status, body := s.do(http.MethodPost, "/comments", bobToken, map[string]any{
			"resultId": resultID, "content": "<script>alert(1)</script>Nice work!",
		})
		require.Equal(t, http.StatusCreated, status, body)
		comment := body["comment"].(map[string]any)
		assert.Equal(t, "Nice work!", comment["content"])

		status, _ = s.do(http.MethodDelete, fmt.Sprintf("/comments/%v", comment["id"]), annToken, nil)
		assert.Equal(t, http.StatusForbidden, status)

		status, body = s.do(http.MethodPost, "/comments", bobToken, map[string]any{"resultId": resultID, "content": "<b></b>"})
		assert.Equal(t, http.StatusBadRequest, status, body)

		_, body = s.do(http.MethodGet, fmt.Sprintf("/comments?resultId=%v", resultID), annToken, nil)
		assert.Len(t, body["comments"].([]any), 1)
	})

	t.Run("deleting the result removes its comments", func(t *testing.T) {
		status, _ := s.do(http.MethodDelete, fmt.Sprintf("/results/%v", resultID), annToken, nil)
		require.Equal(t, http.StatusOK, status)

		_, body := s.do(http.MethodGet, fmt.Sprintf("/comments?resultId=%v", resultID), annToken, nil)
		assert.Empty(t, body["comments"].([]any))
	})
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, security.NewRateLimiter(2, time.Minute))
	credentials := map[string]any{"email": "nobody@example.com", "password": "password123"}

	for i := 0; i < 2; i++ {
		status, _ := s.do(http.MethodPost, "/auth/login", "", credentials)
		assert.Equal(t, http.StatusUnauthorized, status)
	}

	status, body := s.do(http.MethodPost, "/auth/login", "", credentials)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, ErrTooManyRequests, errorMessage(body))
}

func TestLoggingSetsRequestID(t *testing.T) {
	originalOutput := log.Writer()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(originalOutput)

	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/workouts", nil))
	requestID := recorder.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, requestID)
	assert.Contains(t, buf.String(), "GET /workouts 418")
	assert.Contains(t, buf.String(), requestID)

	recorder = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/workouts", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	handler.ServeHTTP(recorder, req)
	assert.Equal(t, "abc-123", recorder.Header().Get(RequestIDHeader))
}

func TestHealth(t *testing.T) {
	recorder := httptest.NewRecorder()
	RequireReady(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run before startup completes")
	})).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/workouts", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	CompleteStep(StepDatabase)
	recorder = httptest.NewRecorder()
	Health(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var status struct {
		Ready    bool `json:"ready"`
		Progress int  `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
	assert.False(t, status.Ready)
	assert.Equal(t, 25, status.Progress)

	MarkReady()
	recorder = httptest.NewRecorder()
	Health(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
