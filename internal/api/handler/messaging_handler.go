package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
)

// MessagingHandler exposes WhatsApp and email dispatch plus the public
// contact form.
type MessagingHandler struct {
	whatsapp ports.WhatsAppService
	email    ports.EmailService
	contact  ports.ContactService
}

func NewMessagingHandler(whatsapp ports.WhatsAppService, email ports.EmailService, contact ports.ContactService) *MessagingHandler {
	return &MessagingHandler{whatsapp: whatsapp, email: email, contact: contact}
}

// SendWhatsApp handles POST /whatsapp/send.
//
// @Summary      Send one WhatsApp text message
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      whatsAppSendRequest  true  "Message"
// @Success      200   {object}  domain.Message
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /whatsapp/send [post]
func (h *MessagingHandler) SendWhatsApp(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req whatsAppSendRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	msg, err := h.whatsapp.Send(c.Request().Context(), caller, req.To, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}

// BulkWhatsApp handles POST /whatsapp/bulk-send. Per-number failures are
// reported in the body; the request itself only fails on malformed input.
//
// @Summary      Send a WhatsApp message to many numbers
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      whatsAppBulkRequest  true  "Numbers and message"
// @Success      200   {object}  dispatchResponse
// @Failure      400   {object}  errorResponse
// @Router       /whatsapp/bulk-send [post]
func (h *MessagingHandler) BulkWhatsApp(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req whatsAppBulkRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.whatsapp.SendBulk(c.Request().Context(), caller, req.Numbers, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDispatchResponse(res))
}

// Messages handles GET /whatsapp/messages.
//
// @Summary      Latest outbound WhatsApp ledger entries
// @Tags         whatsapp
// @Produce      json
// @Security     BearerAuth
// @Param        to     query     string  false  "Recipient number"
// @Param        limit  query     int     false  "Max entries (default 50, max 500)"
// @Success      200    {array}   domain.Message
// @Failure      403    {object}  errorResponse
// @Router       /whatsapp/messages [get]
func (h *MessagingHandler) Messages(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return domain.Invalid("limit inválido: %s", raw)
		}
		limit = n
	}

	msgs, err := h.whatsapp.Messages(c.Request().Context(), c.QueryParam("to"), limit)
	if err != nil {
		return err
	}
	if msgs == nil {
		msgs = []*domain.Message{}
	}
	return c.JSON(http.StatusOK, msgs)
}

// SendEmail handles POST /email/send.
//
// @Summary      Send one transactional email
// @Tags         email
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      emailSendRequest  true  "Email"
// @Success      200   {object}  emailSentResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /email/send [post]
func (h *MessagingHandler) SendEmail(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req emailSendRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := h.email.Send(c.Request().Context(), caller, req.To, req.Subject, req.HTML)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emailSentResponse{ID: id})
}

// BulkEmail handles POST /email/bulk-send. {{nombre}} in subject or html is
// replaced with each recipient's name.
//
// @Summary      Send an email to many recipients
// @Tags         email
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      emailBulkRequest  true  "Recipients and content"
// @Success      200   {object}  dispatchResponse
// @Failure      400   {object}  errorResponse
// @Router       /email/bulk-send [post]
func (h *MessagingHandler) BulkEmail(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req emailBulkRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.email.SendBulk(c.Request().Context(), caller, toRecipients(req.Recipients), req.Subject, req.HTML)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDispatchResponse(res))
}

// Contact handles POST /contact. Public.
//
// @Summary      Website contact form
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Contact form"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /contact [post]
func (h *MessagingHandler) Contact(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}

	if err := h.contact.Submit(c.Request().Context(), toContactForm(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}
