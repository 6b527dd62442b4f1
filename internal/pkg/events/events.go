package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tipos de evento publicados pelo fluxo de pedidos.
const (
	PedidoCriado     = "PedidoCriado"
	PedidoAtualizado = "PedidoAtualizado"
	PedidoPago       = "PedidoPago"
	PedidoFinalizado = "PedidoFinalizado"
	PedidoExcluido   = "PedidoExcluido"
)

// Producer identifica a origem dos eventos.
const Producer = "pranchashop-api"

// Envelope é o formato comum de todas as mensagens publicadas.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // id do pedido
	Payload       json.RawMessage `json:"payload"`
}

// Publisher entrega envelopes ao broker configurado.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// NewEnvelope monta o envelope serializando o payload.
func NewEnvelope(eventType, correlationID string, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("falha ao serializar payload de %s: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      Producer,
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}

// RoutingKey devolve a chave de roteamento do evento (ex.: "pedido.finalizado").
func RoutingKey(eventType string) string {
	return "pedido." + strings.ToLower(strings.TrimPrefix(eventType, "Pedido"))
}

// NopPublisher descarta os eventos; usado quando EVENTS_DRIVER está vazio.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Envelope) error { return nil }
func (NopPublisher) Close() error                            { return nil }
