package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

// OpportunityHandler handles HTTP requests for the sales pipeline.
type OpportunityHandler struct {
	service ports.OpportunityService
}

func NewOpportunityHandler(service ports.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{service: service}
}

// List handles GET /opportunities.
//
// @Summary      List opportunities visible to the caller
// @Tags         opportunities
// @Produce      json
// @Security     BearerAuth
// @Param        stage     query     string  false  "Stage filter"
// @Param        clientId  query     string  false  "Client id"
// @Success      200       {array}   opportunityResponse
// @Failure      400       {object}  errorResponse
// @Router       /opportunities [get]
func (h *OpportunityHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	opps, err := h.service.List(c.Request().Context(), caller, domain.OpportunityFilter{
		Stage:    domain.Stage(c.QueryParam("stage")),
		ClientID: c.QueryParam("clientId"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOpportunityResponses(opps))
}

// Get handles GET /opportunities/:id.
//
// @Summary      Get an opportunity by id
// @Tags         opportunities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Opportunity id"
// @Success      200  {object}  opportunityResponse
// @Failure      404  {object}  errorResponse
// @Router       /opportunities/{id} [get]
func (h *OpportunityHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	opp, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOpportunityResponse(opp))
}

// Create handles POST /opportunities.
//
// @Summary      Create an opportunity
// @Tags         opportunities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      opportunityRequest  true  "Opportunity"
// @Success      201   {object}  opportunityResponse
// @Failure      400   {object}  errorResponse
// @Router       /opportunities [post]
func (h *OpportunityHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req opportunityRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	opp, err := toOpportunity(req)
	if err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), caller, opp)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOpportunityResponse(created))
}

// Update handles PUT and PATCH /opportunities/:id.
//
// @Summary      Partially update an opportunity
// @Tags         opportunities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Opportunity id"
// @Param        body  body      opportunityPatchRequest  true  "Fields to change"
// @Success      200   {object}  opportunityResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /opportunities/{id} [patch]
func (h *OpportunityHandler) Update(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req opportunityPatchRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	patch, err := toOpportunityPatch(req)
	if err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOpportunityResponse(updated))
}

// MoveStage handles PATCH /opportunities/:id/stage.
//
// @Summary      Move an opportunity to another stage
// @Tags         opportunities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Opportunity id"
// @Param        body  body      moveStageRequest  true  "Target stage"
// @Success      200   {object}  opportunityResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /opportunities/{id}/stage [patch]
func (h *OpportunityHandler) MoveStage(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req moveStageRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	moved, err := h.service.MoveStage(c.Request().Context(), caller, c.Param("id"), domain.Stage(req.Stage))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOpportunityResponse(moved))
}

// Delete handles DELETE /opportunities/:id.
//
// @Summary      Delete an opportunity
// @Tags         opportunities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Opportunity id"
// @Success      200  {object}  successResponse
// @Failure      404  {object}  errorResponse
// @Router       /opportunities/{id} [delete]
func (h *OpportunityHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// Summary handles GET /opportunities/summary.
//
// @Summary      Per-stage count and estimated value
// @Tags         opportunities
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  stageSummaryResponse
// @Router       /opportunities/summary [get]
func (h *OpportunityHandler) Summary(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	rows, err := h.service.Summary(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStageSummaryResponses(rows))
}
