package domain

import (
	"slices"
	"time"
)

// ClientStatus is the lifecycle position of a prospect or customer.
type ClientStatus string

const (
	ClientNew         ClientStatus = "nuevo"
	ClientContacted   ClientStatus = "contactado"
	ClientInterested  ClientStatus = "interesado"
	ClientNegotiating ClientStatus = "en-negociacion"
	ClientConverted   ClientStatus = "convertido"
	ClientInactive    ClientStatus = "inactivo"
)

var clientStatuses = []ClientStatus{
	ClientNew, ClientContacted, ClientInterested, ClientNegotiating, ClientConverted, ClientInactive,
}

// Valid reports whether s belongs to the fixed vocabulary.
func (s ClientStatus) Valid() bool {
	return slices.Contains(clientStatuses, s)
}

// ServiceTag identifies one of the services the business sells.
type ServiceTag string

const (
	ServiceWebsites     ServiceTag = "paginas-web"
	ServiceOnlineStores ServiceTag = "tiendas-online"
	ServiceMarketing    ServiceTag = "marketing-digital"
	ServiceSEO          ServiceTag = "seo"
	ServiceSocialMedia  ServiceTag = "redes-sociales"
	ServiceAutomation   ServiceTag = "automatizacion"
	ServiceChatbots     ServiceTag = "chatbots"
	ServiceMaintenance  ServiceTag = "mantenimiento"
)

var serviceTags = []ServiceTag{
	ServiceWebsites, ServiceOnlineStores, ServiceMarketing, ServiceSEO,
	ServiceSocialMedia, ServiceAutomation, ServiceChatbots, ServiceMaintenance,
}

func (t ServiceTag) Valid() bool {
	return slices.Contains(serviceTags, t)
}

// ServiceTags returns a copy of the service vocabulary.
func ServiceTags() []ServiceTag {
	return slices.Clone(serviceTags)
}

// Client is a prospect or customer.
type Client struct {
	ID                 string
	Name               string
	Email              string
	Phone              string
	Company            string
	InterestedServices []ServiceTag
	Status             ClientStatus
	Notes              string
	OwnerUserID        *string
	CreatedAt          time.Time
}

// ClientPatch holds the mutable client fields; nil means "keep current value".
// An empty OwnerUserID clears the owner.
type ClientPatch struct {
	Name               *string
	Email              *string
	Phone              *string
	Company            *string
	InterestedServices *[]ServiceTag
	Status             *ClientStatus
	Notes              *string
	OwnerUserID        *string
}

// ClientFilter narrows a client listing.
type ClientFilter struct {
	OwnerUserID string // empty = no ownership filter
	Status      ClientStatus
	Search      string
}
