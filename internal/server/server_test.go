package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/db"
	"github.com/lancerhq/workspace-service/internal/logger"
	"github.com/lancerhq/workspace-service/internal/models"
	"github.com/lancerhq/workspace-service/internal/repository"
	"github.com/lancerhq/workspace-service/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(gormDB))

	project := models.Project{Name: "Brand refresh", UserID: uuid.New().String(), Status: "active"}
	require.NoError(t, gormDB.Create(&project).Error)

	projects := repository.NewProjectRepository(gormDB)
	svc := service.New(gormDB, projects, nil, nil, logger.Nop())

	router := gin.New()
	router.Use(RequestID())
	New(svc, projects, logger.Nop()).Register(router)
	return router, gormDB, project.ID
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-Id", "actor-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetOperationsEndpoint(t *testing.T) {
	router, _, projectID := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/projects/"+projectID+"/operations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var payload struct {
		Tasks   []json.RawMessage `json:"tasks"`
		Metrics struct {
			PlannedBudgetCents int64 `json:"plannedBudgetCents"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Tasks, 4)
	require.Equal(t, int64(8_450_000), payload.Metrics.PlannedBudgetCents)
}

func TestValidationErrorsReturn400(t *testing.T) {
	router, _, projectID := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/projects/"+projectID+"/budgets", `{"category":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "category", body.Field)
	require.Equal(t, "category is required.", body.Error)
}

func TestUnknownProjectReturns404(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/projects/"+uuid.New().String()+"/operations", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Resource string `json:"resource"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "project", body.Resource)
}

func TestTaskCrudEndpoints(t *testing.T) {
	router, gormDB, projectID := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/projects/"+projectID+"/tasks", `{"title":"Design review","progressPercent":30}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "planned", created.Status)
	require.Equal(t, float64(30), created.ProgressPercent)

	rec = doJSON(t, router, http.MethodPut, "/api/projects/"+projectID+"/tasks/"+created.ID, `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/projects/"+projectID+"/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, gormDB.Model(&models.Task{}).Where("id = ?", created.ID).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestCreateMessageEndpoint(t *testing.T) {
	router, gormDB, projectID := newTestRouter(t)

	// Dashboard read seeds the starter conversations.
	rec := doJSON(t, router, http.MethodGet, "/api/projects/"+projectID+"/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var conv models.Conversation
	require.NoError(t, gormDB.First(&conv).Error)

	rec = doJSON(t, router, http.MethodPost,
		"/api/projects/"+projectID+"/conversations/"+conv.ID+"/messages",
		`{"body":"Kickoff notes are up.","authorName":"Project lead"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NoError(t, gormDB.First(&conv, "id = ?", conv.ID).Error)
	require.Equal(t, "Kickoff notes are up.", conv.LastMessagePreview)
}

func TestCreateProjectEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/projects", `{"name":"New engagement","userId":"user-7"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var project models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	require.NotEmpty(t, project.ID)
	require.Equal(t, "active", project.Status)

	rec = doJSON(t, router, http.MethodGet, "/api/projects?userId=user-7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var projects []models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	require.Len(t, projects, 1)
}
