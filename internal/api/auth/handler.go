package auth

import (
	"context"
	"errors"
	"net/http"

	"pranchashop/internal/api/response"
	"pranchashop/internal/domain"
	apperror "pranchashop/internal/errors"
	"pranchashop/internal/pkg/logger"
)

// AuthService define o contrato para as operações de login e cadastro de usuário.
type AuthService interface {
	Login(ctx context.Context, login, senha string) (string, error)
	CreateUsuario(ctx context.Context, req domain.UsuarioRequest) (domain.Usuario, error)
}

// TokenResponse é o corpo devolvido no login.
type TokenResponse struct {
	Token string `json:"token"`
}

type Handler struct {
	Service AuthService
	Logger  logger.Logger
}

func NewHandler(svc AuthService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// LoginHandler lida com POST /auth.
// @Summary Autentica um usuário e retorna um JWT
// @Description Credenciais erradas respondem 204 sem corpo.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body domain.AuthRequest true "Login e senha"
// @Success 200 {object} TokenResponse "Token também enviado no header Authorization"
// @Success 204 "Login ou senha inválidos"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Router /auth [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.AuthRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	token, err := h.Service.Login(r.Context(), req.Login, req.Senha)
	if err != nil {
		var unauthorized *apperror.UnauthorizedError
		if errors.As(err, &unauthorized) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		response.Error(w, r, h.Logger, err)
		return
	}

	w.Header().Set("Authorization", token)
	response.Handle(w, r, h.Logger, TokenResponse{Token: token}, nil, http.StatusOK)
}

// CreateUsuarioHandler lida com POST /usuarios.
// @Summary Cadastra um usuário
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param usuario body domain.UsuarioRequest true "Login, senha e idPerfil (1 ADM, 2 USER)"
// @Success 201 {object} domain.Usuario
// @Failure 400 {object} domain.ErrorResponse "Campo inválido"
// @Failure 409 {object} domain.ErrorResponse "Login já cadastrado"
// @Router /usuarios [post]
func (h *Handler) CreateUsuarioHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.UsuarioRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	u, err := h.Service.CreateUsuario(r.Context(), req)
	response.Handle(w, r, h.Logger, u, err, http.StatusCreated)
}
