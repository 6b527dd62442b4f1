package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pranchashop/internal/domain"
	apperror "pranchashop/internal/errors"
	"pranchashop/internal/pkg/logger"
)

// Handle processa erros de serviço e envia respostas padronizadas ao cliente.
// Sem erro, escreve data (se houver) com successStatus.
func Handle(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err != nil {
		Error(w, r, log, err)
		return
	}

	if data == nil {
		w.WriteHeader(successStatus)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(successStatus)
	if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
		log.Error("Falha ao codificar JSON de resposta", jsonErr)
	}
}

// Error traduz o erro para o status HTTP e o corpo domain.ErrorResponse.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Field:    apperror.FieldOf(err),
		Message:  message,
	})
}

// Decode lê o corpo JSON da requisição.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.NewValidationError("body", "Payload JSON inválido.")
	}
	return nil
}

// PathID lê um parâmetro numérico da rota. Valores não numéricos falham no campo informado.
func PathID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		return 0, apperror.NewValidationError(param, fmt.Sprintf("%s inválido", param))
	}
	return id, nil
}
