package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prn-tf/atlant-cms/internal/app"
	"github.com/prn-tf/atlant-cms/internal/auth"
	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/mediator"
	"github.com/prn-tf/atlant-cms/internal/repository"
)

// loginRequest is the JSON body of a login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the issued token and the authenticated user.
type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// registerRequest is the JSON body of an account creation.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// passwordRequest is the JSON body of a password change.
type passwordRequest struct {
	Password string `json:"password"`
}

// UserHandler serves authentication and account management. Accounts
// are not a generic resource: creation hashes a password and updates
// are limited to the password.
type UserHandler struct {
	mediator *mediator.Mediator
	tokens   *auth.TokenManager
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(m *mediator.Mediator, tokens *auth.TokenManager) *UserHandler {
	return &UserHandler{mediator: m, tokens: tokens}
}

// Login handles POST /auth/login. It is the only unauthenticated
// write on the server.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	results, err := h.mediator.Send(r.Context(), app.AuthenticateCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	user, ok := results[0].(*domain.User)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Me handles GET /auth/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	user, err := h.mediator.Ask(r.Context(), app.GetByIDQuery[*domain.User]{ID: claims.UserID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// AdminRoutes mounts the account management routes.
func (h *UserHandler) AdminRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}/password", h.changePassword)
		r.Delete("/{id}", h.delete)
	})
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	results, err := h.mediator.Send(r.Context(), app.RegisterUserCommand{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, results[0])
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	result, err := mediator.Ask[app.ListQuery[*domain.User], repository.ListResult[*domain.User]](
		r.Context(), h.mediator, app.ListQuery[*domain.User]{})
	if err != nil {
		writeError(w, err)
		return
	}

	items := result.Items
	if items == nil {
		items = []*domain.User{}
	}
	writeJSON(w, http.StatusOK, listResponse[*domain.User]{
		Items: items,
		Total: result.Total,
	})
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	user, err := h.mediator.Ask(r.Context(), app.GetByIDQuery[*domain.User]{ID: id})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	var req passwordRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if _, err := h.mediator.Send(r.Context(), app.ChangePasswordCommand{ID: id, Password: req.Password}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	if _, err := h.mediator.Send(r.Context(), app.DeleteCommand[*domain.User]{ID: id}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
