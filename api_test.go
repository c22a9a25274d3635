package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"taskflow/config"
	"taskflow/constants"
	"taskflow/models"
	"taskflow/routes"
	"taskflow/utils"

	"github.com/gin-gonic/gin"
)

type testEnv struct {
	router       *gin.Engine
	dbCleanupSQL func(t *testing.T)

	admin models.User
	mgr   models.User
	mem   models.User
}

var allModels = []interface{}{
	&models.Notification{},
	&models.Invitation{},
	&models.Attachment{},
	&models.Comment{},
	&models.Tag{},
	&models.Task{},
	&models.Project{},
	&models.TeamMember{},
	&models.Team{},
	&models.OrganizationMember{},
	&models.Organization{},
	&models.User{},
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	if os.Getenv("DB_NAME") == "" {
		_ = os.Setenv("DB_NAME", "testflowgo")
	}
	if os.Getenv("JWT_SECRET") == "" {
		_ = os.Setenv("JWT_SECRET", "test-secret")
	}

	db := config.ConnectDB()

	if err := db.Migrator().DropTable(allModels...); err != nil {
		t.Fatalf("failed to drop tables: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Team{},
		&models.TeamMember{},
		&models.Project{},
		&models.Task{},
		&models.Tag{},
		&models.Comment{},
		&models.Attachment{},
		&models.Invitation{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	router := routes.SetupRouter(db)

	admin := models.User{Name: "Admin", Email: "admin@example.com", Role: constants.RoleAdmin}
	mgr := models.User{Name: "Manager", Email: "manager@example.com", Role: constants.RoleManager}
	mem := models.User{Name: "Member", Email: "member@example.com", Role: constants.RoleUser}

	for _, u := range []*models.User{&admin, &mgr, &mem} {
		h, err := utils.HashPassword("pass1234")
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		u.Password = h
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user %s: %v", u.Email, err)
		}
	}

	return &testEnv{
		router: router,
		dbCleanupSQL: func(t *testing.T) {
			t.Helper()
			_ = db.Migrator().DropTable(allModels...)
		},
		admin: admin,
		mgr:   mgr,
		mem:   mem,
	}
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearerFor(t *testing.T, u models.User) string {
	t.Helper()
	tok, err := utils.GenerateJWT(u)
	if err != nil {
		t.Fatalf("generate jwt: %v", err)
	}
	return "Bearer " + tok
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	env := setupTestEnv(t)
	defer env.dbCleanupSQL(t)

	regBody := map[string]any{
		"name":     "New User",
		"email":    "new@example.com",
		"password": "pass1234",
	}

	w := doRequest(t, env.router, http.MethodPost, "/register", regBody, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}

	loginBody := map[string]any{"email": "new@example.com", "password": "pass1234"}
	w = doRequest(t, env.router, http.MethodPost, "/login", loginBody, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal login resp: %v", err)
	}
	if resp["token"] == nil || resp["token"] == "" {
		t.Fatalf("expected token in response: %v", resp)
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/tasks", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("GET /api/tasks without token expected 401 got=%d", w.Code)
	}
}

func TestUsers_AdminOnly(t *testing.T) {
	env := setupTestEnv(t)
	defer env.dbCleanupSQL(t)

	adminAuth := map[string]string{"Authorization": bearerFor(t, env.admin)}
	memAuth := map[string]string{"Authorization": bearerFor(t, env.mem)}

	w := doRequest(t, env.router, http.MethodGet, "/api/users", nil, adminAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/users as admin status=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/users", nil, memAuth)
	if w.Code != http.StatusForbidden {
		t.Fatalf("GET /api/users as member expected 403 got=%d body=%s", w.Code, w.Body.String())
	}

	upd := map[string]any{"role": constants.RoleAgent}
	w = doRequest(t, env.router, http.MethodPut, "/api/users/"+itoa(env.mem.ID), upd, adminAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT /api/users/:id as admin status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestTasks_CRUDAndAssignment(t *testing.T) {
	env := setupTestEnv(t)
	defer env.dbCleanupSQL(t)

	memAuth := map[string]string{"Authorization": bearerFor(t, env.mem)}
	mgrAuth := map[string]string{"Authorization": bearerFor(t, env.mgr)}

	create := map[string]any{
		"title":       "Write onboarding docs",
		"description": "First draft",
		"priority":    constants.TaskPriorityHigh,
		"type":        constants.TaskTypeTask,
	}
	w := doRequest(t, env.router, http.MethodPost, "/api/tasks", create, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/tasks status=%d body=%s", w.Code, w.Body.String())
	}

	var created models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created task: %v", err)
	}
	if created.Status != constants.TaskStatusOpen {
		t.Fatalf("expected default OPEN status, got %s", created.Status)
	}

	// Creators see their task; unrelated users do not.
	w = doRequest(t, env.router, http.MethodGet, "/api/tasks/"+itoa(created.ID), nil, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/tasks/:id as creator status=%d body=%s", w.Code, w.Body.String())
	}
	w = doRequest(t, env.router, http.MethodGet, "/api/tasks/"+itoa(created.ID), nil, mgrAuth)
	if w.Code != http.StatusForbidden {
		t.Fatalf("GET /api/tasks/:id as outsider expected 403 got=%d body=%s", w.Code, w.Body.String())
	}

	// Sub-resources are gated the same way as the task itself.
	w = doRequest(t, env.router, http.MethodGet, "/api/tasks/"+itoa(created.ID)+"/comments", nil, mgrAuth)
	if w.Code != http.StatusForbidden {
		t.Fatalf("GET comments as outsider expected 403 got=%d body=%s", w.Code, w.Body.String())
	}
	attachment := map[string]any{"file_name": "notes.pdf", "url": "https://files.example.com/notes.pdf", "size": 1024}
	w = doRequest(t, env.router, http.MethodPost, "/api/tasks/"+itoa(created.ID)+"/attachments", attachment, mgrAuth)
	if w.Code != http.StatusForbidden {
		t.Fatalf("POST attachment as outsider expected 403 got=%d body=%s", w.Code, w.Body.String())
	}
	w = doRequest(t, env.router, http.MethodGet, "/api/tasks/"+itoa(created.ID)+"/attachments", nil, mgrAuth)
	if w.Code != http.StatusForbidden {
		t.Fatalf("GET attachments as outsider expected 403 got=%d body=%s", w.Code, w.Body.String())
	}
	w = doRequest(t, env.router, http.MethodPost, "/api/tasks/"+itoa(created.ID)+"/tags", map[string]any{"name": "urgent"}, mgrAuth)
	if w.Code != http.StatusForbidden {
		t.Fatalf("POST tag as outsider expected 403 got=%d body=%s", w.Code, w.Body.String())
	}
	w = doRequest(t, env.router, http.MethodDelete, "/api/tasks/"+itoa(created.ID)+"/tags/1", nil, mgrAuth)
	if w.Code != http.StatusForbidden {
		t.Fatalf("DELETE tag as outsider expected 403 got=%d body=%s", w.Code, w.Body.String())
	}

	// The creator can attach and list files.
	w = doRequest(t, env.router, http.MethodPost, "/api/tasks/"+itoa(created.ID)+"/attachments", attachment, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("POST attachment as creator status=%d body=%s", w.Code, w.Body.String())
	}
	w = doRequest(t, env.router, http.MethodGet, "/api/tasks/"+itoa(created.ID)+"/attachments", nil, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("GET attachments as creator status=%d body=%s", w.Code, w.Body.String())
	}
	var attachments []models.Attachment
	if err := json.Unmarshal(w.Body.Bytes(), &attachments); err != nil {
		t.Fatalf("unmarshal attachments: %v", err)
	}
	if len(attachments) != 1 || attachments[0].FileName != "notes.pdf" {
		t.Fatalf("expected 1 attachment notes.pdf, got %+v", attachments)
	}

	// Assigning the manager grants them access and a notification.
	assign := map[string]any{"user_id": env.mgr.ID}
	w = doRequest(t, env.router, http.MethodPost, "/api/tasks/"+itoa(created.ID)+"/assignees", assign, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("POST assignees status=%d body=%s", w.Code, w.Body.String())
	}
	w = doRequest(t, env.router, http.MethodGet, "/api/tasks/"+itoa(created.ID), nil, mgrAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/tasks/:id as assignee status=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/notifications?unread=true", nil, mgrAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/notifications status=%d body=%s", w.Code, w.Body.String())
	}
	var notifications []models.Notification
	if err := json.Unmarshal(w.Body.Bytes(), &notifications); err != nil {
		t.Fatalf("unmarshal notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected 1 assignment notification, got %d", len(notifications))
	}

	comment := map[string]any{"body": "Looks good so far"}
	w = doRequest(t, env.router, http.MethodPost, "/api/tasks/"+itoa(created.ID)+"/comments", comment, mgrAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("POST comment status=%d body=%s", w.Code, w.Body.String())
	}

	upd := map[string]any{"status": constants.TaskStatusDone}
	w = doRequest(t, env.router, http.MethodPut, "/api/tasks/"+itoa(created.ID), upd, mgrAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT /api/tasks/:id (to DONE) status=%d body=%s", w.Code, w.Body.String())
	}

	upd = map[string]any{"status": "NOT_A_STATUS"}
	w = doRequest(t, env.router, http.MethodPut, "/api/tasks/"+itoa(created.ID), upd, memAuth)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("PUT invalid status expected 400 got=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodDelete, "/api/tasks/"+itoa(created.ID), nil, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE /api/tasks/:id status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestOrganizations_MembersAndInvitations(t *testing.T) {
	env := setupTestEnv(t)
	defer env.dbCleanupSQL(t)

	memAuth := map[string]string{"Authorization": bearerFor(t, env.mem)}
	mgrAuth := map[string]string{"Authorization": bearerFor(t, env.mgr)}

	w := doRequest(t, env.router, http.MethodPost, "/api/organizations", map[string]any{"name": "Acme"}, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/organizations status=%d body=%s", w.Code, w.Body.String())
	}
	var org models.Organization
	if err := json.Unmarshal(w.Body.Bytes(), &org); err != nil {
		t.Fatalf("unmarshal org: %v", err)
	}

	// Non-admin outsiders cannot mutate the organization.
	w = doRequest(t, env.router, http.MethodPut, "/api/organizations/"+itoa(org.ID), map[string]any{"name": "Evil"}, mgrAuth)
	if w.Code != http.StatusForbidden {
		t.Fatalf("PUT org as outsider expected 403 got=%d body=%s", w.Code, w.Body.String())
	}

	invite := map[string]any{"email": "manager@example.com"}
	w = doRequest(t, env.router, http.MethodPost, "/api/organizations/"+itoa(org.ID)+"/invitations", invite, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("POST invitation status=%d body=%s", w.Code, w.Body.String())
	}
	var invitation models.Invitation
	if err := json.Unmarshal(w.Body.Bytes(), &invitation); err != nil {
		t.Fatalf("unmarshal invitation: %v", err)
	}
	if invitation.Token == "" || invitation.Status != constants.InvitationPending {
		t.Fatalf("unexpected invitation: %+v", invitation)
	}

	w = doRequest(t, env.router, http.MethodPost, "/api/invitations/"+invitation.Token+"/accept", nil, mgrAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("accept invitation status=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/organizations/"+itoa(org.ID)+"/members", nil, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("GET members status=%d body=%s", w.Code, w.Body.String())
	}
	var members []models.OrganizationMember
	if err := json.Unmarshal(w.Body.Bytes(), &members); err != nil {
		t.Fatalf("unmarshal members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected creator + invitee, got %d members", len(members))
	}
}

func TestAnalytics_Endpoints(t *testing.T) {
	env := setupTestEnv(t)
	defer env.dbCleanupSQL(t)

	memAuth := map[string]string{"Authorization": bearerFor(t, env.mem)}
	mgrAuth := map[string]string{"Authorization": bearerFor(t, env.mgr)}

	for _, title := range []string{"A", "B"} {
		body := map[string]any{"title": title, "status": constants.TaskStatusDone}
		w := doRequest(t, env.router, http.MethodPost, "/api/tasks", body, memAuth)
		if w.Code != http.StatusOK {
			t.Fatalf("seed task status=%d body=%s", w.Code, w.Body.String())
		}
	}

	w := doRequest(t, env.router, http.MethodGet, "/api/analytics/tasks?months=3", nil, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("GET analytics/tasks status=%d body=%s", w.Code, w.Body.String())
	}
	var taskStats struct {
		TasksByStatus map[string]int   `json:"tasksByStatus"`
		TasksByMonth  []map[string]any `json:"tasksByMonth"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &taskStats); err != nil {
		t.Fatalf("unmarshal task analytics: %v", err)
	}
	if taskStats.TasksByStatus[constants.TaskStatusDone] != 2 {
		t.Fatalf("expected 2 DONE tasks, got %+v", taskStats.TasksByStatus)
	}
	if len(taskStats.TasksByMonth) != 3 {
		t.Fatalf("expected 3 month buckets, got %d", len(taskStats.TasksByMonth))
	}

	// The ALL sentinel and no filter must agree.
	w2 := doRequest(t, env.router, http.MethodGet, "/api/analytics/tasks?months=3&organization_id=ALL", nil, memAuth)
	if w2.Code != http.StatusOK || w2.Body.String() != w.Body.String() {
		t.Fatalf("organization_id=ALL should match unfiltered response")
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/analytics/productivity?weeks=4", nil, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("GET analytics/productivity status=%d body=%s", w.Code, w.Body.String())
	}
	var prodStats struct {
		WeeklyProductivity []map[string]any `json:"weeklyProductivity"`
		TotalCompleted     int              `json:"totalCompleted"`
		CurrentStreak      int              `json:"currentStreak"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &prodStats); err != nil {
		t.Fatalf("unmarshal productivity: %v", err)
	}
	if prodStats.TotalCompleted != 2 {
		t.Fatalf("expected totalCompleted=2, got %d", prodStats.TotalCompleted)
	}
	if prodStats.CurrentStreak != 1 {
		t.Fatalf("expected streak=1 (both done today), got %d", prodStats.CurrentStreak)
	}
	if len(prodStats.WeeklyProductivity) != 4 {
		t.Fatalf("expected 4 week buckets, got %d", len(prodStats.WeeklyProductivity))
	}

	// Team analytics is gated to MANAGER/ADMIN.
	w = doRequest(t, env.router, http.MethodGet, "/api/analytics/team", nil, memAuth)
	if w.Code != http.StatusForbidden {
		t.Fatalf("GET analytics/team as member expected 403 got=%d", w.Code)
	}
	w = doRequest(t, env.router, http.MethodGet, "/api/analytics/team", nil, mgrAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("GET analytics/team as manager status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAnalytics_Export(t *testing.T) {
	env := setupTestEnv(t)
	defer env.dbCleanupSQL(t)

	memAuth := map[string]string{"Authorization": bearerFor(t, env.mem)}

	w := doRequest(t, env.router, http.MethodGet, "/api/analytics/export?tab=tasks", nil, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("export tasks status=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Body.String(), "Status\n") {
		t.Fatalf("expected CSV starting with Status section, got %q", w.Body.String())
	}
	if got := len(strings.Split(w.Body.String(), "\n\n")); got != 5 {
		t.Fatalf("expected 5 CSV sections, got %d", got)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "tasks-analytics-") {
		t.Fatalf("unexpected Content-Disposition %q", cd)
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/analytics/export?tab=team", nil, memAuth)
	if w.Code != http.StatusForbidden {
		t.Fatalf("export team as member expected 403 got=%d", w.Code)
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/analytics/export?tab=bogus", nil, memAuth)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("export bogus tab expected 400 got=%d", w.Code)
	}
}

func TestVoiceAgent(t *testing.T) {
	env := setupTestEnv(t)
	defer env.dbCleanupSQL(t)

	memAuth := map[string]string{"Authorization": bearerFor(t, env.mem)}

	w := doRequest(t, env.router, http.MethodPost, "/api/voice-agent",
		map[string]any{"query": "create task named foo", "sessionId": "s1"}, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("voice create status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Text string          `json:"text"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal voice resp: %v", err)
	}
	if !strings.Contains(resp.Text, "foo") || resp.Data == nil {
		t.Fatalf("unexpected voice response: %+v", resp)
	}

	w = doRequest(t, env.router, http.MethodPost, "/api/voice-agent",
		map[string]any{"query": "list my tasks", "sessionId": "s1"}, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("voice list status=%d body=%s", w.Code, w.Body.String())
	}

	// Nonsense input still answers 200 with guidance text.
	w = doRequest(t, env.router, http.MethodPost, "/api/voice-agent",
		map[string]any{"query": "sing me a song", "sessionId": "s1"}, memAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("voice unknown status=%d body=%s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal voice resp: %v", err)
	}
	if !strings.Contains(resp.Text, "didn't understand") {
		t.Fatalf("expected fallback text, got %q", resp.Text)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
