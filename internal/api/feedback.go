package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/feedback-api/backend/internal/service"
)

type FeedbackHandler struct {
	feedbackService service.IFeedbackService
}

func NewFeedbackHandler(feedbackService service.IFeedbackService) *FeedbackHandler {
	useJSONFieldNames()
	return &FeedbackHandler{feedbackService: feedbackService}
}

// RegisterRoutes mounts the feedback endpoints. writeMiddleware runs in front
// of the mutating handlers only.
func (h *FeedbackHandler) RegisterRoutes(router gin.IRoutes, writeMiddleware ...gin.HandlerFunc) {
	write := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(writeMiddleware)+1)
		chain = append(chain, writeMiddleware...)
		return append(chain, handler)
	}

	router.GET("/feedback", h.ListFeedback)
	router.POST("/feedback", write(h.CreateFeedback)...)
	router.GET("/feedback/:id", h.GetFeedback)
	router.PUT("/feedback/:id", write(h.UpdateFeedback)...)
	router.DELETE("/feedback/:id", write(h.DeleteFeedback)...)
}

// ListFeedback returns every record ordered by creation time
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	feedbackList, err := h.feedbackService.List(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err, "list feedback")
		return
	}

	responses := make([]FeedbackResponse, len(feedbackList))
	for i := range feedbackList {
		responses[i] = toResponse(&feedbackList[i])
	}
	c.JSON(http.StatusOK, responses)
}

// CreateFeedback stores a new record
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	feedback, err := h.feedbackService.Create(c.Request.Context(), *req.Rating, req.Description)
	if err != nil {
		abortWithServiceError(c, err, "create feedback")
		return
	}
	c.JSON(http.StatusCreated, toResponse(feedback))
}

// GetFeedback returns a single record
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	feedback, err := h.feedbackService.Get(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, err, "get feedback")
		return
	}
	c.JSON(http.StatusOK, toResponse(feedback))
}

// UpdateFeedback replaces rating and description of an existing record
func (h *FeedbackHandler) UpdateFeedback(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	feedback, err := h.feedbackService.Update(c.Request.Context(), id, *req.Rating, req.Description)
	if err != nil {
		abortWithServiceError(c, err, "update feedback")
		return
	}
	c.JSON(http.StatusOK, toResponse(feedback))
}

// DeleteFeedback removes a record. Unknown ids still get 204.
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.feedbackService.Delete(c.Request.Context(), id); err != nil {
		abortWithServiceError(c, err, "delete feedback")
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "invalid feedback ID",
			Details: []FieldError{{Field: "id", Message: "must be an integer"}},
		})
		return 0, false
	}
	return id, true
}
