// Package server exposes the workspace core over HTTP. It owns payload
// decoding, the actor header, and the translation of the core's error
// taxonomy into status codes; all domain behavior lives in service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lancerhq/workspace-service/internal/apperr"
	"github.com/lancerhq/workspace-service/internal/logger"
	"github.com/lancerhq/workspace-service/internal/models"
	"github.com/lancerhq/workspace-service/internal/repository"
	"github.com/lancerhq/workspace-service/internal/service"
)

// actorHeader carries the audit identity. Authorization happens upstream;
// the value is passed through opaquely.
const actorHeader = "X-Actor-Id"

type Handler struct {
	svc      *service.Service
	projects *repository.ProjectRepository
	log      *logger.Logger
}

func New(svc *service.Service, projects *repository.ProjectRepository, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{svc: svc, projects: projects, log: log}
}

// RequestID stamps every request with an id for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("%.8s", uuid.New().String())
		}
		c.Header("X-Request-ID", requestID)
		c.Set("requestID", requestID)
		c.Next()
	}
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/projects", h.CreateProject)
		api.GET("/projects", h.ListProjects)
	}

	p := api.Group("/projects/:projectId")
	{
		p.GET("/operations", h.GetOperations)
		p.PUT("/operations", h.UpdateOperations)
		p.GET("/dashboard", h.GetDashboard)
		p.PUT("/brief", h.UpdateBrief)
		p.PUT("/approvals/:entityId", h.UpdateApproval)
		p.PUT("/whiteboards/:entityId", h.UpdateWhiteboard)
		p.POST("/conversations/:conversationId/messages", h.CreateMessage)
		p.POST("/conversations/:conversationId/acknowledge", h.AcknowledgeConversation)

		crud(p, "tasks", h, h.svc.AddProjectTask, h.svc.UpdateProjectTask, h.svc.RemoveProjectTask)
		crud(p, "budgets", h, h.svc.CreateProjectBudget, h.svc.UpdateProjectBudget, h.svc.DeleteProjectBudget)
		crud(p, "objects", h, h.svc.CreateProjectObject, h.svc.UpdateProjectObject, h.svc.DeleteProjectObject)
		crud(p, "timeline-events", h, h.svc.CreateProjectTimelineEvent, h.svc.UpdateProjectTimelineEvent, h.svc.DeleteProjectTimelineEvent)
		crud(p, "meetings", h, h.svc.CreateProjectMeeting, h.svc.UpdateProjectMeeting, h.svc.DeleteProjectMeeting)
		crud(p, "calendar-entries", h, h.svc.CreateProjectCalendarEntry, h.svc.UpdateProjectCalendarEntry, h.svc.DeleteProjectCalendarEntry)
		crud(p, "roles", h, h.svc.CreateProjectRole, h.svc.UpdateProjectRole, h.svc.DeleteProjectRole)
		crud(p, "submissions", h, h.svc.CreateProjectSubmission, h.svc.UpdateProjectSubmission, h.svc.DeleteProjectSubmission)
		crud(p, "invites", h, h.svc.CreateProjectInvite, h.svc.UpdateProjectInvite, h.svc.DeleteProjectInvite)
		crud(p, "hr-records", h, h.svc.CreateProjectHrRecord, h.svc.UpdateProjectHrRecord, h.svc.DeleteProjectHrRecord)
		crud(p, "time-logs", h, h.svc.CreateProjectTimeLog, h.svc.UpdateProjectTimeLog, h.svc.DeleteProjectTimeLog)
		crud(p, "targets", h, h.svc.CreateProjectTarget, h.svc.UpdateProjectTarget, h.svc.DeleteProjectTarget)
		crud(p, "objectives", h, h.svc.CreateProjectObjective, h.svc.UpdateProjectObjective, h.svc.DeleteProjectObjective)
		crud(p, "files", h, h.svc.CreateWorkspaceFile, h.svc.UpdateWorkspaceFile, h.svc.DeleteWorkspaceFile)
	}
}

// crud mounts the create/update/delete triple every sub-entity shares.
func crud[T any](g *gin.RouterGroup, path string, h *Handler,
	create func(context.Context, string, map[string]any, string) (*T, error),
	update func(context.Context, string, string, map[string]any, string) (*T, error),
	remove func(context.Context, string, string, string) (*service.SuccessResult, error),
) {
	g.POST("/"+path, func(c *gin.Context) {
		payload, ok := h.bindPayload(c)
		if !ok {
			return
		}
		row, err := create(c.Request.Context(), c.Param("projectId"), payload, c.GetHeader(actorHeader))
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	})
	g.PUT("/"+path+"/:entityId", func(c *gin.Context) {
		payload, ok := h.bindPayload(c)
		if !ok {
			return
		}
		row, err := update(c.Request.Context(), c.Param("projectId"), c.Param("entityId"), payload, c.GetHeader(actorHeader))
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	})
	g.DELETE("/"+path+"/:entityId", func(c *gin.Context) {
		res, err := remove(c.Request.Context(), c.Param("projectId"), c.Param("entityId"), c.GetHeader(actorHeader))
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})
}

func (h *Handler) bindPayload(c *gin.Context) (map[string]any, bool) {
	payload := map[string]any{}
	if c.Request.ContentLength == 0 {
		return payload, true
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return nil, false
	}
	return payload, true
}

func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string, err error) {
	body := gin.H{
		"error":      message,
		"request_id": c.GetString("requestID"),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"endpoint":   c.Request.URL.Path,
	}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(statusCode, body)
}

// writeError maps the core taxonomy: validation failures are the caller's
// fault, missing lookups are 404, everything else is opaque.
func (h *Handler) writeError(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		body := gin.H{
			"error":      ve.Message,
			"request_id": c.GetString("requestID"),
		}
		if ve.Field != "" {
			body["field"] = ve.Field
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      nf.Error(),
			"resource":   nf.Resource,
			"request_id": c.GetString("requestID"),
		})
		return
	}
	h.log.Errorw("request failed", "endpoint", c.Request.URL.Path, "error", err)
	h.errorResponse(c, http.StatusInternalServerError, "Internal server error", nil)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) CreateProject(c *gin.Context) {
	var body struct {
		Name        string `json:"name" binding:"required"`
		UserID      string `json:"userId" binding:"required"`
		Description string `json:"description"`
		ClientName  string `json:"clientName"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	project := models.Project{
		Name:        body.Name,
		UserID:      body.UserID,
		Description: body.Description,
		ClientName:  body.ClientName,
		Status:      "active",
	}
	if err := h.projects.CreateProject(c.Request.Context(), &project); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) ListProjects(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		h.writeError(c, apperr.Required("userId"))
		return
	}
	projects, err := h.projects.GetProjectsByUserID(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) GetOperations(c *gin.Context) {
	payload, err := h.svc.GetProjectOperations(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (h *Handler) UpdateOperations(c *gin.Context) {
	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}
	out, err := h.svc.UpdateProjectOperations(c.Request.Context(), c.Param("projectId"), payload, c.GetHeader(actorHeader))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetDashboard(c *gin.Context) {
	payload, err := h.svc.GetWorkspaceDashboard(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (h *Handler) UpdateBrief(c *gin.Context) {
	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}
	brief, err := h.svc.UpdateWorkspaceBrief(c.Request.Context(), c.Param("projectId"), payload, c.GetHeader(actorHeader))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, brief)
}

func (h *Handler) UpdateApproval(c *gin.Context) {
	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}
	approval, err := h.svc.UpdateWorkspaceApproval(c.Request.Context(), c.Param("projectId"), c.Param("entityId"), payload, c.GetHeader(actorHeader))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, approval)
}

func (h *Handler) UpdateWhiteboard(c *gin.Context) {
	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}
	board, err := h.svc.UpdateWorkspaceWhiteboard(c.Request.Context(), c.Param("projectId"), c.Param("entityId"), payload, c.GetHeader(actorHeader))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *Handler) CreateMessage(c *gin.Context) {
	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}
	message, err := h.svc.CreateConversationMessage(c.Request.Context(), c.Param("projectId"), c.Param("conversationId"), payload, c.GetHeader(actorHeader))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *Handler) AcknowledgeConversation(c *gin.Context) {
	conversation, err := h.svc.AcknowledgeWorkspaceConversation(c.Request.Context(), c.Param("projectId"), c.Param("conversationId"), c.GetHeader(actorHeader))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversation)
}
