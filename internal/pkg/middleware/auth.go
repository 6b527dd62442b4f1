package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"pranchashop/internal/domain"
	apperror "pranchashop/internal/errors"
	"pranchashop/internal/pkg/token"
)

// ContextKey é um tipo próprio para as chaves de contexto deste pacote.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados do usuário extraídos do token JWT.
type UserClaims struct {
	Login  string
	Perfil domain.Perfil
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware valida o Bearer token e anexa login e perfil ao contexto da requisição.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") || len(authHeader) == len("Bearer ") {
				writeError(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			claims, err := tokenSvc.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				writeError(w, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			perfil, err := domain.ParsePerfil(claims.Perfil)
			if err != nil {
				writeError(w, apperror.NewUnauthorizedError("Token com perfil desconhecido."))
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, UserClaims{
				Login:  claims.Login,
				Perfil: perfil,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserClaimsFromContext extrai as claims anexadas por NewAuthMiddleware.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// PermissionMiddleware só deixa passar usuários com um dos perfis informados.
func PermissionMiddleware(perfis ...domain.Perfil) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				writeError(w, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			for _, p := range perfis {
				if claims.Perfil == p {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, apperror.NewForbiddenError("Você não tem a permissão necessária."))
		})
	}
}

func writeError(w http.ResponseWriter, appErr apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus())
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     appErr.HTTPStatus(),
		Category: appErr.Category(),
		Message:  appErr.Message(),
	})
}
