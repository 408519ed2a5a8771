// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/chantierhq/chantier/internal/auth"
	"github.com/chantierhq/chantier/internal/config"
	"github.com/chantierhq/chantier/internal/database"
	"github.com/chantierhq/chantier/internal/models"
)

// mockStore is an in-memory Store for handler tests. It mirrors the real
// store's error contract: not-found sentinels, email uniqueness, cascades.
type mockStore struct {
	users    map[int64]*models.User
	projects map[int64]*models.Project
	tasks    map[int64]*models.Task
	comments map[int64]*models.Comment
	nextID   int64

	pingErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:    make(map[int64]*models.User),
		projects: make(map[int64]*models.Project),
		tasks:    make(map[int64]*models.Task),
		comments: make(map[int64]*models.Comment),
		nextID:   1,
	}
}

func (s *mockStore) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *mockStore) CreateUser(_ context.Context, name, email, passwordHash, role string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return nil, database.ErrEmailTaken
		}
	}
	u := &models.User{ID: s.id(), Name: name, Email: email, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.users[u.ID] = u
	return u, nil
}

func (s *mockStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *mockStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, database.ErrUserNotFound
}

func (s *mockStore) UpdateUser(_ context.Context, id int64, name, email, role string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	for _, other := range s.users {
		if other.ID != id && other.Email == email {
			return nil, database.ErrEmailTaken
		}
	}
	u.Name, u.Email, u.Role = name, email, role
	copied := *u
	return &copied, nil
}

func (s *mockStore) UpdateUserProfile(ctx context.Context, id int64, name, email string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	return s.UpdateUser(ctx, id, name, email, u.Role)
}

func (s *mockStore) UpdateUserPassword(_ context.Context, id int64, passwordHash string) error {
	u, ok := s.users[id]
	if !ok {
		return database.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *mockStore) DeleteUser(_ context.Context, id int64) error {
	if _, ok := s.users[id]; !ok {
		return database.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *mockStore) ListUserSummaries(_ context.Context) ([]models.UserSummary, error) {
	out := make([]models.UserSummary, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, models.UserSummary{ID: u.ID, Name: u.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *mockStore) ListUsersWithCounts(_ context.Context) ([]models.UserWithCounts, error) {
	out := make([]models.UserWithCounts, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, models.UserWithCounts{User: *u})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *mockStore) CreateProject(_ context.Context, name string, description *string, ownerID int64) (*models.Project, error) {
	p := &models.Project{ID: s.id(), Name: name, Description: description, OwnerID: ownerID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.projects[p.ID] = p
	return p, nil
}

func (s *mockStore) GetProject(_ context.Context, id int64) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, database.ErrProjectNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *mockStore) ListProjectsWithCounts(_ context.Context) ([]models.ProjectWithCounts, error) {
	out := make([]models.ProjectWithCounts, 0, len(s.projects))
	for _, p := range s.projects {
		pc := models.ProjectWithCounts{Project: *p}
		for _, t := range s.tasks {
			if t.ProjectID == p.ID {
				pc.TaskCount++
				if t.Status == models.StatusDone {
					pc.CompletedTaskCount++
				}
			}
		}
		out = append(out, pc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *mockStore) UpdateProject(_ context.Context, id int64, update database.ProjectUpdate) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, database.ErrProjectNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = update.Description
	}
	copied := *p
	return &copied, nil
}

func (s *mockStore) DeleteProject(_ context.Context, id int64) error {
	if _, ok := s.projects[id]; !ok {
		return database.ErrProjectNotFound
	}
	for tid, t := range s.tasks {
		if t.ProjectID == id {
			for cid, c := range s.comments {
				if c.TaskID == tid {
					delete(s.comments, cid)
				}
			}
			delete(s.tasks, tid)
		}
	}
	delete(s.projects, id)
	return nil
}

func (s *mockStore) CreateTask(_ context.Context, title string, description *string, projectID int64, assignedTo *int64, deadline *time.Time) (*models.Task, error) {
	t := &models.Task{ID: s.id(), Title: title, Description: description, Status: models.StatusTodo, ProjectID: projectID, AssignedTo: assignedTo, Deadline: deadline, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.tasks[t.ID] = t
	return t, nil
}

func (s *mockStore) GetTaskWithProject(_ context.Context, id int64) (*models.TaskWithProject, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, database.ErrTaskNotFound
	}
	p, ok := s.projects[t.ProjectID]
	if !ok {
		return nil, database.ErrProjectNotFound
	}
	return &models.TaskWithProject{Task: *t, Project: *p}, nil
}

func (s *mockStore) GetTaskDetail(ctx context.Context, id int64) (*models.TaskDetail, error) {
	wp, err := s.GetTaskWithProject(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &models.TaskDetail{Task: wp.Task, Project: wp.Project, Comments: []models.Comment{}}
	for _, c := range s.comments {
		if c.TaskID == id {
			detail.Comments = append(detail.Comments, *c)
		}
	}
	return detail, nil
}

func (s *mockStore) ListTasksByProject(_ context.Context, projectID int64) ([]models.Task, error) {
	out := make([]models.Task, 0)
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *mockStore) ListTasksByAssignee(ctx context.Context, userID int64) ([]models.TaskDetail, error) {
	out := make([]models.TaskDetail, 0)
	for _, t := range s.tasks {
		if t.AssignedTo != nil && *t.AssignedTo == userID {
			detail, err := s.GetTaskDetail(ctx, t.ID)
			if err != nil {
				return nil, err
			}
			out = append(out, *detail)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *mockStore) UpdateTask(_ context.Context, id int64, update database.TaskUpdate) (*models.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, database.ErrTaskNotFound
	}
	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.Description != nil {
		t.Description = update.Description
	}
	if update.Status != nil {
		t.Status = *update.Status
	}
	if update.Deadline != nil {
		t.Deadline = update.Deadline
	}
	if update.AssignedTo != nil {
		t.AssignedTo = update.AssignedTo
	}
	copied := *t
	return &copied, nil
}

func (s *mockStore) DeleteTask(_ context.Context, id int64) error {
	if _, ok := s.tasks[id]; !ok {
		return database.ErrTaskNotFound
	}
	for cid, c := range s.comments {
		if c.TaskID == id {
			delete(s.comments, cid)
		}
	}
	delete(s.tasks, id)
	return nil
}

func (s *mockStore) CreateComment(_ context.Context, text string, taskID, authorID int64) (*models.Comment, error) {
	c := &models.Comment{ID: s.id(), Text: text, TaskID: taskID, AuthorID: authorID, CreatedAt: time.Now()}
	if author, ok := s.users[authorID]; ok {
		c.Author = &models.UserSummary{ID: author.ID, Name: author.Name}
	}
	s.comments[c.ID] = c
	return c, nil
}

func (s *mockStore) GetAdminStats(_ context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{
		TotalProjects: int64(len(s.projects)),
		TotalTasks:    int64(len(s.tasks)),
		TotalUsers:    int64(len(s.users)),
	}
	for _, t := range s.tasks {
		if t.Status == models.StatusDone {
			stats.CompletedTasks++
		}
	}
	stats.CompletionPercentage = models.CompletionPercentage(stats.CompletedTasks, stats.TotalTasks)
	return stats, nil
}

func (s *mockStore) Ping(_ context.Context) error {
	return s.pingErr
}

// testEnv bundles a handler with its mock store and auth plumbing.
type testEnv struct {
	store    *mockStore
	handler  *Handler
	jwt      *auth.JWTManager
	throttle *auth.LoginThrottle
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	secCfg := &config.SecurityConfig{
		JWTSecret:          "0123456789abcdef0123456789abcdef",
		SessionTimeout:     time.Hour,
		LockoutMaxAttempts: 3,
		LockoutDuration:    time.Hour,
	}
	cfg := &config.Config{Security: *secCfg}

	jwtManager, err := auth.NewJWTManager(secCfg)
	if err != nil {
		t.Fatalf("NewJWTManager() error: %v", err)
	}
	revocation, err := auth.NewInMemoryRevocationStore()
	if err != nil {
		t.Fatalf("NewInMemoryRevocationStore() error: %v", err)
	}
	t.Cleanup(func() { _ = revocation.Close() })

	store := newMockStore()
	throttle := auth.NewLoginThrottle(secCfg)
	return &testEnv{
		store:    store,
		handler:  NewHandler(store, cfg, jwtManager, revocation, throttle),
		jwt:      jwtManager,
		throttle: throttle,
	}
}

// seedUser creates a user with a bcrypt hash of "password123!".
func (e *testEnv) seedUser(t *testing.T, name, email, role string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("password123!")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	u, err := e.store.CreateUser(context.Background(), name, email, hash, role)
	if err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	return u
}

// asUser returns a request with the subject injected, as the auth middleware
// would have done.
func asUser(r *http.Request, u *models.User) *http.Request {
	subject := auth.AuthSubject{
		UserID:         u.ID,
		Email:          u.Email,
		Role:           u.Role,
		TokenID:        "test-jti",
		TokenExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
	return r.WithContext(auth.ContextWithSubject(r.Context(), subject))
}

// withURLParam adds a chi route parameter to the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = strings.NewReader(string(data))
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeResponse decodes the standard envelope, failing on malformed output.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) *models.APIResponse {
	t.Helper()
	var response models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return &response
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

func assertAPIErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()
	response := decodeResponse(t, rec)
	if response.Error == nil {
		t.Fatalf("response has no error payload: %s", rec.Body.String())
	}
	if response.Error.Code != code {
		t.Errorf("error code = %q, want %q", response.Error.Code, code)
	}
}
