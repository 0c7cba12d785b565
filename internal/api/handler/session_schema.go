package handler

import "time"

type sessionRequest struct {
	ClientID    string  `json:"clientId"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Service     string  `json:"service"`
	Estado      string  `json:"estado"`
	Notes       string  `json:"notes"`
	MeetingURL  string  `json:"meetingUrl"`
	OwnerUserID *string `json:"ownerUserId"`
}

type sessionPatchRequest struct {
	ClientID    *string `json:"clientId"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Service     *string `json:"service"`
	Estado      *string `json:"estado"`
	Notes       *string `json:"notes"`
	MeetingURL  *string `json:"meetingUrl"`
	OwnerUserID *string `json:"ownerUserId"`
}

type sessionResponse struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"clientId"`
	Client      *clientResponse `json:"client,omitempty"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Service     string          `json:"service"`
	Estado      string          `json:"estado"`
	Notes       string          `json:"notes"`
	MeetingURL  string          `json:"meetingUrl"`
	OwnerUserID *string         `json:"ownerUserId"`
	CreatedAt   time.Time       `json:"createdAt"`
}
