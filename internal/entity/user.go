package entity

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleUser       Role = "USER"
	RoleAmbassador Role = "EMBAJADOR"
)

// User is a CRM account. Ambassadors are referenced from leads by Name only.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"nombre"`
	Role   Role   `json:"rol"`
	Active string `json:"activo"` // "Si" | "No"
}

func (u User) IsActive() bool {
	return u.Active == "Si"
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) IsAmbassador() bool {
	return u.Role == RoleAmbassador
}

// UserInput is the payload of "crearUsuario".
type UserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"nombre" validate:"required"`
	Role     Role   `json:"rol" validate:"required,oneof=ADMIN USER EMBAJADOR"`
	Active   string `json:"activo" validate:"omitempty,oneof=Si No"`
	Password string `json:"password" validate:"required"`
}

// UserChanges is the "changes" object of "actualizarUsuario".
type UserChanges struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Name     *string `json:"nombre,omitempty" validate:"omitempty,min=1"`
	Role     *Role   `json:"rol,omitempty" validate:"omitempty,oneof=ADMIN USER EMBAJADOR"`
	Active   *string `json:"activo,omitempty" validate:"omitempty,oneof=Si No"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1"`
}
