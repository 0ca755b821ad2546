package sheets

import (
	"bytes"
	"encoding/json"
)

// Wire action names understood by the spreadsheet script.
const (
	ActionPing            = "ping"
	ActionLogin           = "login"
	ActionListUsers       = "listarUsuarios"
	ActionCreateUser      = "crearUsuario"
	ActionUpdateUser      = "actualizarUsuario"
	ActionDeleteUser      = "eliminarUsuario"
	ActionListLeads       = "leerTodos"
	ActionCreateLead      = "crear"
	ActionUpdateLead      = "actualizar"
	ActionUpdateLeadStage = "actualizarEtapa"
	ActionDeleteLead      = "eliminar"
	ActionReadRow         = "leerFila"
)

// Envelope is the uniform response body of every action.
type Envelope struct {
	OK      bool            `json:"ok"`
	Mensaje string          `json:"mensaje,omitempty"`
	Datos   json.RawMessage `json:"datos,omitempty"`
	Fila    *int            `json:"fila,omitempty"`
}

// Row returns the row assigned by "crear", read from the envelope or from datos.fila.
func (e *Envelope) Row() (int, bool) {
	if e == nil {
		return 0, false
	}
	if e.Fila != nil {
		return *e.Fila, true
	}
	var d struct {
		Fila *int `json:"fila"`
	}
	if hasDatos(e.Datos) && json.Unmarshal(e.Datos, &d) == nil && d.Fila != nil {
		return *d.Fila, true
	}
	return 0, false
}

func hasDatos(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

type listLeadsRequest struct {
	Embajador string `json:"embajador,omitempty"`
}

type rowRequest struct {
	Fila int `json:"fila"`
}

type updateLeadRequest struct {
	Fila    int         `json:"fila"`
	Cambios interface{} `json:"cambios"`
}

type updateStageRequest struct {
	Fila  int    `json:"fila"`
	Etapa string `json:"etapa"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userIDRequest struct {
	ID string `json:"id"`
}

type updateUserRequest struct {
	ID      string      `json:"id"`
	Changes interface{} `json:"changes"`
}
