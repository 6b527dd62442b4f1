package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do PranchaShop.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Message() string  // Mensagem legível devolvida ao cliente
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "NOT_FOUND", "INTERNAL_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Erro de Domínio ---

// ValidationError é a falha única de domínio: carrega o campo e a mensagem.
// Entrada inválida e registro inexistente compartilham o mesmo tipo; NotFound
// só muda o status devolvido pela borda HTTP.
type ValidationError struct {
	Field    string
	Msg      string
	NotFound bool
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("Erro de Validação: %s", e.Msg)
	}
	return fmt.Sprintf("Erro de Validação [%s]: %s", e.Field, e.Msg)
}
func (e *ValidationError) Message() string { return e.Msg }
func (e *ValidationError) Category() string {
	if e.NotFound {
		return "NOT_FOUND"
	}
	return "VALIDATION_ERROR"
}
func (e *ValidationError) HTTPStatus() int {
	if e.NotFound {
		return http.StatusNotFound // 404
	}
	return http.StatusBadRequest // 400
}
func (e *ValidationError) Unwrap() error { return nil }

// NewValidationError cria uma falha de validação para o campo informado.
func NewValidationError(field, msg string) AppError {
	return &ValidationError{Field: field, Msg: msg}
}

// NewNotFoundError cria uma falha de validação do tipo "registro não encontrado".
func NewNotFoundError(field, msg string) AppError {
	return &ValidationError{Field: field, Msg: msg, NotFound: true}
}

// ConflictError representa um conflito na regra de negócio (e.g., login duplicado).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Message() string  { return e.Msg }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// UnauthorizedError representa credenciais ausentes ou inválidas.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Message() string  { return e.Msg }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError representa um usuário autenticado sem o perfil exigido.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return fmt.Sprintf("Acesso negado: %s", e.Msg) }
func (e *ForbiddenError) Message() string  { return e.Msg }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden } // 403
func (e *ForbiddenError) Unwrap() error    { return nil }

// NewForbiddenError cria um erro de autorização.
func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Erro Interno: %s", e.Msg)
	}
	return fmt.Sprintf("Erro Interno: %s: %v", e.Msg, e.Err)
}
func (e *InternalError) Message() string  { return e.Msg }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB)", msg), err)
}

// --- Helpers ---

// IsNotFound indica se o erro é uma falha de "registro não encontrado".
func IsNotFound(err error) bool {
	var vErr *ValidationError
	return stderrors.As(err, &vErr) && vErr.NotFound
}

// IsValidation indica se o erro é uma falha de domínio (qualquer ValidationError).
func IsValidation(err error) bool {
	var vErr *ValidationError
	return stderrors.As(err, &vErr)
}

// FieldOf devolve o campo associado a uma falha de validação, ou "".
func FieldOf(err error) string {
	var vErr *ValidationError
	if stderrors.As(err, &vErr) {
		return vErr.Field
	}
	return ""
}

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Message()
	}

	// Erro não tipado: tratado como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}
