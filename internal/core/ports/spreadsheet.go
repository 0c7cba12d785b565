package ports

import "github.com/dinamo-digital/crm-api/internal/core/domain"

// Canonical spreadsheet column keys.
const (
	ColName     = "name"
	ColEmail    = "email"
	ColPhone    = "phone"
	ColCompany  = "company"
	ColServices = "services"
	ColStatus   = "status"
	ColNotes    = "notes"
)

// SheetRow is one data row keyed by canonical column. Number is the 1-based
// row number as shown by spreadsheet software.
type SheetRow struct {
	Number int
	Cells  map[string]string
}

// ClientSheet reads and writes the client spreadsheet format.
type ClientSheet interface {
	ReadRows(file []byte) ([]SheetRow, error)
	WriteClients(clients []*domain.Client) ([]byte, error)
}
