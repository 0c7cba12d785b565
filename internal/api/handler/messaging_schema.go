package handler

type whatsAppSendRequest struct {
	To      string `json:"to"      validate:"required"`
	Message string `json:"message" validate:"required"`
}

type whatsAppBulkRequest struct {
	Numbers []string `json:"numbers" validate:"required,min=1"`
	Message string   `json:"message" validate:"required"`
}

type emailSendRequest struct {
	To      string `json:"to"      validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	HTML    string `json:"html"    validate:"required"`
}

// recipientRequest addresses are checked one by one during dispatch so a bad
// address fails only its own row.
type recipientRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type emailBulkRequest struct {
	Recipients []recipientRequest `json:"recipients" validate:"required,min=1"`
	Subject    string             `json:"subject"    validate:"required"`
	HTML       string             `json:"html"       validate:"required"`
}

type emailSentResponse struct {
	ID string `json:"id"`
}

type dispatchSuccessResponse struct {
	Recipient string `json:"recipient"`
	ID        string `json:"id"`
}

type dispatchFailureResponse struct {
	Recipient string `json:"recipient"`
	Reason    string `json:"reason"`
}

type dispatchResponse struct {
	BatchID   string                    `json:"batchId"`
	Total     int                       `json:"total"`
	Succeeded []dispatchSuccessResponse `json:"succeeded"`
	Failed    []dispatchFailureResponse `json:"failed"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Service string `json:"service"`
	Message string `json:"message"`
}
