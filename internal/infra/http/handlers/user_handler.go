package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

type UserHandler struct {
	users *usecase.UserService
}

func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), SessionFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "", users)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	input := entity.UserInput{Role: entity.RoleUser}
	if !decodeJSON(w, r, &input) {
		return
	}
	users, err := h.users.Create(r.Context(), SessionFrom(r.Context()), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, "Usuario creado correctamente", users)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var changes entity.UserChanges
	if !decodeJSON(w, r, &changes) {
		return
	}
	users, err := h.users.Update(r.Context(), SessionFrom(r.Context()), chi.URLParam(r, "id"), changes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Usuario actualizado correctamente", users)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.Delete(r.Context(), SessionFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Usuario eliminado correctamente", users)
}

func (h *UserHandler) Ambassadors(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.Ambassadors(r.Context(), SessionFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "", users)
}
