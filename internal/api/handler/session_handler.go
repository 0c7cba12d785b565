package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

// SessionHandler handles HTTP requests for scheduled sessions.
type SessionHandler struct {
	service ports.SessionService
}

func NewSessionHandler(service ports.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// List handles GET /sessions.
//
// @Summary      List sessions visible to the caller, most recent first
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        clientId  query     string  false  "Client id"
// @Param        estado    query     string  false  "Status filter"
// @Param        from      query     string  false  "From date (YYYY-MM-DD)"
// @Param        to        query     string  false  "To date (YYYY-MM-DD)"
// @Success      200       {array}   sessionResponse
// @Failure      400       {object}  errorResponse
// @Router       /sessions [get]
func (h *SessionHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	filter, err := toSessionFilter(c.QueryParam("clientId"), c.QueryParam("estado"), c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return err
	}

	sessions, err := h.service.List(c.Request().Context(), caller, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponses(sessions))
}

// Get handles GET /sessions/:id.
//
// @Summary      Get a session by id
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session id"
// @Success      200  {object}  sessionResponse
// @Failure      404  {object}  errorResponse
// @Router       /sessions/{id} [get]
func (h *SessionHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	sess, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

// Create handles POST /sessions.
//
// @Summary      Schedule a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sessionRequest  true  "Session"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Router       /sessions [post]
func (h *SessionHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req sessionRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	sess, err := toSession(req)
	if err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), caller, sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSessionResponse(created))
}

// Update handles PUT and PATCH /sessions/:id.
//
// @Summary      Partially update a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Session id"
// @Param        body  body      sessionPatchRequest  true  "Fields to change"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /sessions/{id} [patch]
func (h *SessionHandler) Update(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req sessionPatchRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	patch, err := toSessionPatch(req)
	if err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(updated))
}

// Delete handles DELETE /sessions/:id.
//
// @Summary      Delete a session
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session id"
// @Success      200  {object}  successResponse
// @Failure      404  {object}  errorResponse
// @Router       /sessions/{id} [delete]
func (h *SessionHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}
