package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/lingualeap-backend/internal/domain/aggregates"
	"github.com/yungbote/lingualeap-backend/internal/http/response"
	"github.com/yungbote/lingualeap-backend/internal/services"
)

type LessonHandler struct {
	svc services.LessonService
}

func NewLessonHandler(svc services.LessonService) *LessonHandler {
	return &LessonHandler{svc: svc}
}

type createLessonRequest struct {
	ModuleID                   uuid.UUID      `json:"module_id"`
	Sequence                   *int           `json:"sequence" binding:"omitnil,min=1"`
	PrerequisiteIDs            []uuid.UUID    `json:"prerequisite_ids"`
	Title                      string         `json:"title" binding:"required,max=255"`
	Description                string         `json:"description"`
	Kind                       string         `json:"kind" binding:"max=64"`
	Level                      string         `json:"level" binding:"max=32"`
	Status                     string         `json:"status" binding:"lesson_status"`
	MinRequiredScore           int            `json:"min_required_score" binding:"min=0,max=100"`
	RecommendedDurationMinutes int            `json:"recommended_duration_minutes" binding:"min=0"`
	TheoryContent              string         `json:"theory_content"`
	Metadata                   map[string]any `json:"metadata"`
}

type updateLessonRequest struct {
	Title                      *string        `json:"title" binding:"omitempty,max=255"`
	Description                *string        `json:"description"`
	Kind                       *string        `json:"kind" binding:"omitempty,max=64"`
	Level                      *string        `json:"level" binding:"omitempty,max=32"`
	Status                     *string        `json:"status" binding:"omitempty,lesson_status"`
	Sequence                   *int           `json:"sequence" binding:"omitnil,min=1"`
	MinRequiredScore           *int           `json:"min_required_score" binding:"omitempty,min=0,max=100"`
	RecommendedDurationMinutes *int           `json:"recommended_duration_minutes" binding:"omitempty,min=0"`
	TheoryContent              *string        `json:"theory_content"`
	Metadata                   map[string]any `json:"metadata"`
	// Present (even empty) replaces the whole prerequisite set.
	PrerequisiteIDs *[]uuid.UUID `json:"prerequisite_ids"`
}

type updateStatusRequest struct {
	Status         string `json:"status" binding:"required,lesson_status"`
	ExpectedStatus string `json:"expected_status" binding:"lesson_status"`
}

type reorderRequest struct {
	Sequences map[uuid.UUID]int `json:"sequences" binding:"required,min=1"`
}

// POST /api/lessons
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	var req createLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingMessage(err))
		return
	}
	lesson, err := h.svc.CreateLesson(c.Request.Context(), domainagg.CreateLessonInput{
		ModuleID:                   req.ModuleID,
		Sequence:                   req.Sequence,
		PrerequisiteIDs:            req.PrerequisiteIDs,
		Title:                      req.Title,
		Description:                req.Description,
		Kind:                       req.Kind,
		Level:                      req.Level,
		Status:                     req.Status,
		MinRequiredScore:           req.MinRequiredScore,
		RecommendedDurationMinutes: req.RecommendedDurationMinutes,
		TheoryContent:              req.TheoryContent,
		Metadata:                   req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"lesson": lesson})
}

// GET /api/lessons/:id
func (h *LessonHandler) GetLesson(c *gin.Context) {
	lessonID, ok := pathID(c, "id", "invalid lesson id")
	if !ok {
		return
	}
	lesson, err := h.svc.GetLesson(c.Request.Context(), lessonID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// PUT /api/lessons/:id
func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	lessonID, ok := pathID(c, "id", "invalid lesson id")
	if !ok {
		return
	}
	var req updateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingMessage(err))
		return
	}
	in := domainagg.UpdateLessonInput{
		LessonID:                   lessonID,
		Title:                      req.Title,
		Description:                req.Description,
		Kind:                       req.Kind,
		Level:                      req.Level,
		Status:                     req.Status,
		Sequence:                   req.Sequence,
		MinRequiredScore:           req.MinRequiredScore,
		RecommendedDurationMinutes: req.RecommendedDurationMinutes,
		TheoryContent:              req.TheoryContent,
		Metadata:                   req.Metadata,
	}
	if req.PrerequisiteIDs != nil {
		in.ReplacePrerequisites = true
		in.PrerequisiteIDs = *req.PrerequisiteIDs
	}
	lesson, err := h.svc.UpdateLesson(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// PATCH /api/lessons/:id/status
func (h *LessonHandler) UpdateLessonStatus(c *gin.Context) {
	lessonID, ok := pathID(c, "id", "invalid lesson id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingMessage(err))
		return
	}
	res, err := h.svc.UpdateLessonStatus(c.Request.Context(), domainagg.UpdateLessonStatusInput{
		LessonID:       lessonID,
		Status:         req.Status,
		ExpectedStatus: req.ExpectedStatus,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"lesson_id":       res.LessonID,
		"previous_status": res.PreviousStatus,
		"status":          res.Status,
	})
}

// DELETE /api/lessons/:id
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	lessonID, ok := pathID(c, "id", "invalid lesson id")
	if !ok {
		return
	}
	res, err := h.svc.DeleteLesson(c.Request.Context(), lessonID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"lesson_id":        res.LessonID,
		"module_id":        res.ModuleID,
		"deleted_edges":    res.DeletedEdges,
		"deleted_progress": res.DeletedProgress,
	})
}

// POST /api/lessons/:id/prerequisites/:prerequisiteId
func (h *LessonHandler) AddPrerequisite(c *gin.Context) {
	lessonID, prereqID, ok := edgeIDs(c)
	if !ok {
		return
	}
	lesson, err := h.svc.AddPrerequisite(c.Request.Context(), lessonID, prereqID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// DELETE /api/lessons/:id/prerequisites/:prerequisiteId
func (h *LessonHandler) RemovePrerequisite(c *gin.Context) {
	lessonID, prereqID, ok := edgeIDs(c)
	if !ok {
		return
	}
	lesson, err := h.svc.RemovePrerequisite(c.Request.Context(), lessonID, prereqID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// GET /api/lessons/:id/completed?user_id=
func (h *LessonHandler) IsLessonCompleted(c *gin.Context) {
	lessonID, ok := pathID(c, "id", "invalid lesson id")
	if !ok {
		return
	}
	userID, ok := queryUserID(c)
	if !ok {
		return
	}
	done, err := h.svc.IsLessonCompletedByUser(c.Request.Context(), lessonID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson_id": lessonID, "user_id": userID, "completed": done})
}

// GET /api/modules/:id/lessons
func (h *LessonHandler) ListModuleLessons(c *gin.Context) {
	moduleID, ok := pathID(c, "id", "invalid module id")
	if !ok {
		return
	}
	lessons, err := h.svc.ListModuleLessons(c.Request.Context(), moduleID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lessons": lessons})
}

// PUT /api/modules/:id/lessons/reorder
func (h *LessonHandler) ReorderLessons(c *gin.Context) {
	moduleID, ok := pathID(c, "id", "invalid module id")
	if !ok {
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingMessage(err))
		return
	}
	lessons, err := h.svc.ReorderLessons(c.Request.Context(), moduleID, req.Sequences)
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lessons": lessons})
}

// GET /api/modules/:id/lessons/available?user_id=
func (h *LessonHandler) ListAvailableLessons(c *gin.Context) {
	moduleID, ok := pathID(c, "id", "invalid module id")
	if !ok {
		return
	}
	userID, ok := queryUserID(c)
	if !ok {
		return
	}
	lessons, err := h.svc.GetAvailableLessonsForUser(c.Request.Context(), userID, moduleID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lessons": lessons})
}

func pathID(c *gin.Context, param, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil || id == uuid.Nil {
		badRequest(c, msg)
		return uuid.Nil, false
	}
	return id, true
}

func edgeIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	lessonID, ok := pathID(c, "id", "invalid lesson id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	prereqID, ok := pathID(c, "prerequisiteId", "invalid prerequisite id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return lessonID, prereqID, true
}

func queryUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query("user_id"))
	if err != nil || id == uuid.Nil {
		badRequest(c, "invalid or missing user_id")
		return uuid.Nil, false
	}
	return id, true
}
