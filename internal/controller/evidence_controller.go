package controller

import (
	"dspt_pro_backend/internal/service"
	"dspt_pro_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EvidenceController struct {
	Evidence    *service.EvidenceService
	Assessments *service.AssessmentService
}

func NewEvidenceController(evidence *service.EvidenceService, assessments *service.AssessmentService) *EvidenceController {
	return &EvidenceController{Evidence: evidence, Assessments: assessments}
}

// @Summary Upload an evidence file for a response
// @Tags assessments
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Param questionId path int true "Question ID"
// @Param file formData file true "Evidence document"
// @Success 200 {object} util.Response
// @Router /api/assessments/{id}/responses/{questionId}/evidence [post]
func (c *EvidenceController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	assessmentID, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}
	questionID, err := pathID(ctx, "questionId")
	if err != nil {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	// Authorize before touching storage: a rejected caller must not
	// leave a file under the assessment's evidence prefix.
	if err := c.Assessments.CanAttachEvidence(assessmentID, questionID, claims.PracticeID, claims.IsAdmin()); err != nil {
		writeAssessmentError(ctx, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	objectKey, err := c.Evidence.Store(ctx.Request.Context(), assessmentID, questionID, fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.Assessments.SetEvidenceFile(assessmentID, questionID, claims.PracticeID, claims.IsAdmin(), objectKey); err != nil {
		// The check raced with a complete; drop the stored object.
		_ = c.Evidence.Delete(ctx.Request.Context(), objectKey)
		writeAssessmentError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"objectKey": objectKey,
		"url":       c.Evidence.URL(objectKey),
	})
}
