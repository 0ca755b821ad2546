package entity

import (
	"errors"
	"strconv"
)

var ErrNotSelectable = errors.New("lead sin fila asignada: no se puede seleccionar ni editar")

// Lead is a solar-sales opportunity as stored in one row of the remote sheet.
// JSON names match the sheet columns exactly.
type Lead struct {
	ID               string `json:"id"`
	Date             string `json:"fecha"`
	Name             string `json:"nombre"`
	Phone            string `json:"telefono"`
	City             string `json:"ubicacion"`
	Reason           string `json:"motivo"`
	AlertType        string `json:"tipoAlerta"`
	ProposedValue    Amount `json:"valorPropuesta"`
	Power            string `json:"potencia"`
	Savings          Amount `json:"ahorro"` // mensual
	Benefits         Amount `json:"beneficios"`
	Panels           Count  `json:"paneles"`
	AnnualProduction string `json:"produccionAnual"` // texto libre con unidades, ej. "5.400 kWh"
	Stage            Stage  `json:"etapa"`
	Notes            Notes  `json:"notas,omitempty"`
	Ambassador       string `json:"embajador,omitempty"`

	// Row is the sheet position the backend reports as "_fila". It is the only
	// handle the backend accepts for mutations; nil when the backend omitted it.
	Row *int `json:"_fila,omitempty"`
}

// AssignID derives the display identifier from the row reference. Leads
// without a row get an empty ID and are not selectable.
func (l *Lead) AssignID() {
	if l.Row == nil {
		l.ID = ""
		return
	}
	l.ID = strconv.Itoa(*l.Row)
}

func (l Lead) Selectable() bool {
	return l.Row != nil
}

// LeadInput is a lead without identity, as sent to the "crear" action.
type LeadInput struct {
	Date             string   `json:"fecha"`
	Name             string   `json:"nombre" validate:"required"`
	Phone            string   `json:"telefono"`
	City             string   `json:"ubicacion"`
	Reason           string   `json:"motivo"`
	AlertType        string   `json:"tipoAlerta"`
	ProposedValue    Amount   `json:"valorPropuesta" validate:"gte=0"`
	Power            string   `json:"potencia"`
	Savings          Amount   `json:"ahorro" validate:"gte=0"`
	Benefits         Amount   `json:"beneficios" validate:"gte=0"`
	Panels           Count    `json:"paneles" validate:"gte=0"`
	AnnualProduction string   `json:"produccionAnual"`
	Stage            Stage    `json:"etapa" validate:"required,stage"`
	Notes            []string `json:"notas"`
	Ambassador       string   `json:"embajador"`
}

// NewLeadInput returns the blank form used when capturing a new lead.
func NewLeadInput() LeadInput {
	return LeadInput{
		Reason:    "Cliente Potencial detectado (>300 kWh)",
		AlertType: "OPORTUNIDAD VENTA",
		Stage:     StageContact,
		Notes:     []string{},
	}
}

// LeadChanges is a partial update; nil fields are left untouched by the backend.
type LeadChanges struct {
	Date             *string   `json:"fecha,omitempty"`
	Name             *string   `json:"nombre,omitempty" validate:"omitempty,min=1"`
	Phone            *string   `json:"telefono,omitempty"`
	City             *string   `json:"ubicacion,omitempty"`
	Reason           *string   `json:"motivo,omitempty"`
	AlertType        *string   `json:"tipoAlerta,omitempty"`
	ProposedValue    *Amount   `json:"valorPropuesta,omitempty" validate:"omitempty,gte=0"`
	Power            *string   `json:"potencia,omitempty"`
	Savings          *Amount   `json:"ahorro,omitempty" validate:"omitempty,gte=0"`
	Benefits         *Amount   `json:"beneficios,omitempty" validate:"omitempty,gte=0"`
	Panels           *Count    `json:"paneles,omitempty" validate:"omitempty,gte=0"`
	AnnualProduction *string   `json:"produccionAnual,omitempty"`
	Stage            *Stage    `json:"etapa,omitempty" validate:"omitempty,stage"`
	Notes            *[]string `json:"notas,omitempty"`
	Ambassador       *string   `json:"embajador,omitempty"`
}

func (c LeadChanges) Empty() bool {
	return c == LeadChanges{}
}
