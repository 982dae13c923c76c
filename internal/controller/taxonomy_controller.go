package controller

import (
	"dspt_pro_backend/internal/service"
	"dspt_pro_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TaxonomyController struct {
	Service *service.TaxonomyService
}

func NewTaxonomyController(svc *service.TaxonomyService) *TaxonomyController {
	return &TaxonomyController{Service: svc}
}

// @Summary Full DSPT question taxonomy
// @Tags taxonomy
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/taxonomy/sections [get]
func (c *TaxonomyController) ListSections(ctx *gin.Context) {
	sections, err := c.Service.ListSections()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sections)
}

// @Summary Create or update a section
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SectionRequest true "Section"
// @Success 201 {object} util.Response
// @Router /api/admin/taxonomy/sections [post]
func (c *TaxonomyController) UpsertSection(ctx *gin.Context) {
	var req service.SectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sec, err := c.Service.UpsertSection(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, sec)
}

// @Summary Create or update a question
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuestionRequest true "Question"
// @Success 201 {object} util.Response
// @Router /api/admin/taxonomy/questions [post]
func (c *TaxonomyController) UpsertQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.UpsertQuestion(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, q)
}

// @Summary Delete a question
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Question ID"
// @Success 200 {object} util.Response
// @Router /api/admin/taxonomy/questions/{id} [delete]
func (c *TaxonomyController) DeleteQuestion(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.Service.DeleteQuestion(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
