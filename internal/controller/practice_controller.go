package controller

import (
	"dspt_pro_backend/internal/service"
	"dspt_pro_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PracticeController struct {
	Service *service.PracticeService
}

func NewPracticeController(svc *service.PracticeService) *PracticeController {
	return &PracticeController{Service: svc}
}

// @Summary Create a practice
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.PracticeRequest true "Practice details"
// @Success 201 {object} util.Response
// @Router /api/admin/practices [post]
func (c *PracticeController) Create(ctx *gin.Context) {
	var req service.PracticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	p, err := c.Service.Create(req)
	if err != nil {
		if errors.Is(err, util.ErrODSCodeRegistered) {
			util.Conflict(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, p)
}

// @Summary List practices
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response
// @Router /api/admin/practices [get]
func (c *PracticeController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)

	ps, total, err := c.Service.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: ps, Total: total, Page: page, Limit: limit})
}

// @Summary Practice detail
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Practice ID"
// @Success 200 {object} util.Response
// @Router /api/admin/practices/{id} [get]
func (c *PracticeController) Get(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	p, err := c.Service.Get(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, p)
}

// @Summary Update a practice
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Practice ID"
// @Param body body service.PracticeRequest true "Practice details"
// @Success 200 {object} util.Response
// @Router /api/admin/practices/{id} [put]
func (c *PracticeController) Update(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.PracticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	p, err := c.Service.Update(id, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, p)
}

type disableRequest struct {
	Disabled bool `json:"disabled"`
}

// @Summary Disable or re-enable a practice
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Practice ID"
// @Param body body disableRequest true "Disabled flag"
// @Success 200 {object} util.Response
// @Router /api/admin/practices/{id}/disable [post]
func (c *PracticeController) SetDisabled(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req disableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.SetDisabled(id, req.Disabled); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary List users of a practice
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Practice ID"
// @Success 200 {object} util.Response
// @Router /api/admin/practices/{id}/users [get]
func (c *PracticeController) ListUsers(ctx *gin.Context) {
	id, err := pathID(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}
	page, limit := pagination(ctx)

	users, total, err := c.Service.ListUsers(id, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

func pagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func pathID(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id < 1 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
