package handler

import "time"

// --- Request / Response types ---

type clientRequest struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Company            string   `json:"company"`
	InterestedServices []string `json:"interestedServices"`
	Estado             string   `json:"estado"`
	Notes              string   `json:"notes"`
	OwnerUserID        *string  `json:"ownerUserId"`
}

// clientPatchRequest mirrors clientRequest with every field optional.
// An empty ownerUserId clears the owner.
type clientPatchRequest struct {
	Name               *string   `json:"name"`
	Email              *string   `json:"email"`
	Phone              *string   `json:"phone"`
	Company            *string   `json:"company"`
	InterestedServices *[]string `json:"interestedServices"`
	Estado             *string   `json:"estado"`
	Notes              *string   `json:"notes"`
	OwnerUserID        *string   `json:"ownerUserId"`
}

type clientResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Company            string    `json:"company"`
	InterestedServices []string  `json:"interestedServices"`
	Estado             string    `json:"estado"`
	Notes              string    `json:"notes"`
	OwnerUserID        *string   `json:"ownerUserId"`
	CreatedAt          time.Time `json:"createdAt"`
}

type importRejectionResponse struct {
	Row    int               `json:"row"`
	Reason string            `json:"reason"`
	Raw    map[string]string `json:"raw"`
}

type importResponse struct {
	Accepted []clientResponse          `json:"accepted"`
	Rejected []importRejectionResponse `json:"rejected"`
}
