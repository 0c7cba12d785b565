package handler

import "github.com/dinamo-digital/crm-api/internal/core/ports"

func toRecipients(in []recipientRequest) []ports.Recipient {
	out := make([]ports.Recipient, len(in))
	for i, r := range in {
		out[i] = ports.Recipient{Email: r.Email, Name: r.Name}
	}
	return out
}

func toDispatchResponse(res *ports.DispatchResult) dispatchResponse {
	resp := dispatchResponse{
		BatchID:   res.BatchID,
		Total:     len(res.Succeeded) + len(res.Failed),
		Succeeded: make([]dispatchSuccessResponse, len(res.Succeeded)),
		Failed:    make([]dispatchFailureResponse, len(res.Failed)),
	}
	for i, s := range res.Succeeded {
		resp.Succeeded[i] = dispatchSuccessResponse{Recipient: s.Recipient, ID: s.ID}
	}
	for i, f := range res.Failed {
		resp.Failed[i] = dispatchFailureResponse{Recipient: f.Recipient, Reason: f.Reason}
	}
	return resp
}

func toContactForm(req contactRequest) ports.ContactForm {
	return ports.ContactForm{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Service: req.Service,
		Message: req.Message,
	}
}
