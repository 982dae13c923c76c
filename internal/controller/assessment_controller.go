package controller

import (
	"dspt_pro_backend/internal/scoring"
	"dspt_pro_backend/internal/service"
	"dspt_pro_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service *service.AssessmentService
}

func NewAssessmentController(svc *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Service: svc}
}

// @Summary Start a new assessment
// @Tags assessments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.StartAssessmentRequest true "Assessment details"
// @Success 201 {object} util.Response
// @Router /api/assessments [post]
func (c *AssessmentController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.StartAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.Service.Start(claims.UserID, claims.PracticeID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, a)
}

// @Summary List assessments of the caller's practice
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response
// @Router /api/assessments [get]
func (c *AssessmentController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	page, limit := pagination(ctx)

	as, total, err := c.Service.List(claims.PracticeID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: as, Total: total, Page: page, Limit: limit})
}

// @Summary Assessment detail
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id} [get]
func (c *AssessmentController) Get(ctx *gin.Context) {
	claims, id, ok := c.claimsAndID(ctx)
	if !ok {
		return
	}

	a, err := c.Service.Get(id, claims.PracticeID, claims.IsAdmin())
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}

	util.Success(ctx, a)
}

// @Summary Save one response
// @Tags assessments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Param body body service.SaveResponseRequest true "Answer"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id}/responses [put]
func (c *AssessmentController) SaveResponse(ctx *gin.Context) {
	claims, id, ok := c.claimsAndID(ctx)
	if !ok {
		return
	}

	var req service.SaveResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.Service.SaveResponse(id, claims.PracticeID, claims.IsAdmin(), req)
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}

// @Summary List saved responses
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id}/responses [get]
func (c *AssessmentController) ListResponses(ctx *gin.Context) {
	claims, id, ok := c.claimsAndID(ctx)
	if !ok {
		return
	}

	responses, err := c.Service.ListResponses(id, claims.PracticeID, claims.IsAdmin())
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}

	util.Success(ctx, responses)
}

// @Summary Complete an assessment and freeze its scores
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id}/complete [post]
func (c *AssessmentController) Complete(ctx *gin.Context) {
	claims, id, ok := c.claimsAndID(ctx)
	if !ok {
		return
	}

	result, err := c.Service.Complete(id, claims.PracticeID, claims.IsAdmin())
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}

	util.Success(ctx, result.Rounded())
}

// @Summary Recalculate a completed assessment
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id}/recalculate [post]
func (c *AssessmentController) Recalculate(ctx *gin.Context) {
	claims, id, ok := c.claimsAndID(ctx)
	if !ok {
		return
	}

	result, err := c.Service.Recalculate(id, claims.PracticeID, claims.IsAdmin())
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}

	util.Success(ctx, result.Rounded())
}

// @Summary Stored scoring results
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id}/results [get]
func (c *AssessmentController) Results(ctx *gin.Context) {
	claims, id, ok := c.claimsAndID(ctx)
	if !ok {
		return
	}

	results, err := c.Service.Results(id, claims.PracticeID, claims.IsAdmin())
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}

	util.Success(ctx, results)
}

func (c *AssessmentController) claimsAndID(ctx *gin.Context) (*util.Claims, uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return nil, 0, false
	}
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return nil, 0, false
	}
	return claims, id, true
}

func writeAssessmentError(ctx *gin.Context, err error) {
	var verr *scoring.ValidationError
	switch {
	case errors.Is(err, util.ErrAssessmentNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrQuestionNotFound), errors.Is(err, util.ErrResponseNotFound):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAssessmentCompleted),
		errors.Is(err, util.ErrAssessmentNotStarted),
		errors.Is(err, util.ErrAssessmentNotCompleted):
		util.Error(ctx, http.StatusConflict, err.Error())
	case errors.As(err, &verr):
		util.BadRequest(ctx, verr.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
