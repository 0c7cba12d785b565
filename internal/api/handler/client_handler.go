package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

const (
	maxImportBytes = 10 << 20
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ClientHandler handles HTTP requests for client records.
type ClientHandler struct {
	service  ports.ClientService
	transfer ports.ClientTransfer
}

func NewClientHandler(service ports.ClientService, transfer ports.ClientTransfer) *ClientHandler {
	return &ClientHandler{service: service, transfer: transfer}
}

// List handles GET /clients.
//
// @Summary      List clients visible to the caller
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        estado  query     string  false  "Status filter"
// @Param        q       query     string  false  "Substring match on name, email or company"
// @Success      200     {array}   clientResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	clients, err := h.service.List(c.Request().Context(), caller, domain.ClientFilter{
		Status: domain.ClientStatus(c.QueryParam("estado")),
		Search: c.QueryParam("q"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponses(clients))
}

// Get handles GET /clients/:id.
//
// @Summary      Get a client by id
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  clientResponse
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	client, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// Create handles POST /clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      clientRequest  true  "Client"
// @Success      201   {object}  clientResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}

	created, err := h.service.Create(c.Request().Context(), caller, toClient(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toClientResponse(created))
}

// Update handles PUT and PATCH /clients/:id. Omitted fields keep their value.
//
// @Summary      Partially update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Client id"
// @Param        body  body      clientPatchRequest  true  "Fields to change"
// @Success      200   {object}  clientResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /clients/{id} [patch]
func (h *ClientHandler) Update(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req clientPatchRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}

	updated, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), toClientPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(updated))
}

// Delete handles DELETE /clients/:id.
//
// @Summary      Delete a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  successResponse
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// Import handles POST /clients/import (multipart field "file").
//
// @Summary      Import clients from an .xlsx spreadsheet
// @Tags         clients
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Spreadsheet (.xlsx)"
// @Success      200   {object}  importResponse
// @Failure      400   {object}  errorResponse
// @Router       /clients/import [post]
func (h *ClientHandler) Import(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return domain.Invalid("falta el archivo (campo file)")
	}
	if fh.Size > maxImportBytes {
		return domain.Invalid("el archivo supera el límite de %d MB", maxImportBytes>>20)
	}
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImportBytes+1))
	if err != nil {
		return err
	}
	if len(data) > maxImportBytes {
		return domain.Invalid("el archivo supera el límite de %d MB", maxImportBytes>>20)
	}

	res, err := h.transfer.Import(c.Request().Context(), caller, data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toImportResponse(res))
}

// Export handles GET /clients/export.
//
// @Summary      Export visible clients as .xlsx
// @Tags         clients
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      401  {object}  errorResponse
// @Router       /clients/export [get]
func (h *ClientHandler) Export(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	data, err := h.transfer.Export(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("clientes-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsxMIME, data)
}

func invalidPayload() error {
	return domain.Invalid("cuerpo de la solicitud inválido")
}
