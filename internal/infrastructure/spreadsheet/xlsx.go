package spreadsheet

import (
	"bytes"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
	"github.com/dinamo-digital/crm-api/internal/core/ports"
	"github.com/dinamo-digital/crm-api/internal/pkg/textfold"
)

const exportSheet = "Clientes"

// headerAliases maps folded header text to canonical column keys.
var headerAliases = map[string]string{
	"nombre":               ports.ColName,
	"nombre completo":      ports.ColName,
	"name":                 ports.ColName,
	"cliente":              ports.ColName,
	"email":                ports.ColEmail,
	"e-mail":               ports.ColEmail,
	"correo":               ports.ColEmail,
	"correo electronico":   ports.ColEmail,
	"telefono":             ports.ColPhone,
	"phone":                ports.ColPhone,
	"celular":              ports.ColPhone,
	"movil":                ports.ColPhone,
	"whatsapp":             ports.ColPhone,
	"empresa":              ports.ColCompany,
	"company":              ports.ColCompany,
	"compania":             ports.ColCompany,
	"servicios":            ports.ColServices,
	"services":             ports.ColServices,
	"servicios de interes": ports.ColServices,
	"interestedservices":   ports.ColServices,
	"interested services":  ports.ColServices,
	"estado":               ports.ColStatus,
	"status":               ports.ColStatus,
	"notas":                ports.ColNotes,
	"notes":                ports.ColNotes,
	"observaciones":        ports.ColNotes,
}

var exportHeaders = []string{"ID", "Nombre", "Email", "Teléfono", "Empresa", "Servicios", "Estado", "Notas", "Propietario", "Creado"}

// XLSX implements ports.ClientSheet for .xlsx workbooks.
type XLSX struct{}

func NewXLSX() *XLSX {
	return &XLSX{}
}

var _ ports.ClientSheet = (*XLSX)(nil)

// ReadRows reads the first sheet. The first non-empty row is the header;
// unknown columns are ignored and blank rows skipped.
func (XLSX) ReadRows(file []byte) ([]ports.SheetRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file))
	if err != nil {
		return nil, domain.Invalid("archivo inválido: se esperaba un .xlsx")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.Invalid("el archivo no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, domain.Invalid("no se pudo leer la hoja %s", sheets[0])
	}

	headerAt := -1
	for i, r := range rows {
		if !blank(r) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return []ports.SheetRow{}, nil
	}

	columns := make(map[int]string)
	for i, h := range rows[headerAt] {
		if key, ok := headerAliases[textfold.Fold(h)]; ok {
			columns[i] = key
		}
	}
	if len(columns) == 0 {
		return nil, domain.Invalid("encabezados no reconocidos")
	}

	out := make([]ports.SheetRow, 0, len(rows)-headerAt-1)
	for i := headerAt + 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		cells := make(map[string]string, len(columns))
		for col, key := range columns {
			if col < len(rows[i]) {
				cells[key] = strings.TrimSpace(rows[i][col])
			}
		}
		out = append(out, ports.SheetRow{Number: i + 1, Cells: cells})
	}
	return out, nil
}

// WriteClients renders clients into a single-sheet workbook.
func (XLSX) WriteClients(clients []*domain.Client) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, err
	}

	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, bold)
	}

	for i, c := range clients {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			c.ID,
			c.Name,
			c.Email,
			c.Phone,
			c.Company,
			joinServices(c.InterestedServices),
			string(c.Status),
			c.Notes,
			deref(c.OwnerUserID),
			c.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func joinServices(tags []domain.ServiceTag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
