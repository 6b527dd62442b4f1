package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"pranchashop/internal/pkg/logger"
)

// ErrPublisherClosed é devolvido por Publish depois de Close.
var ErrPublisherClosed = errors.New("publisher de eventos encerrado")

// KafkaPublisher escreve de forma assíncrona: Publish enfileira e um goroutine entrega ao Writer.
type KafkaPublisher struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
	logger  logger.Logger

	mu     sync.RWMutex
	closed bool
}

// NewKafkaPublisher cria o publisher e inicia o loop de entrega.
func NewKafkaPublisher(brokers []string, topic string, buf int, log logger.Logger) *KafkaPublisher {
	p := &KafkaPublisher{
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		logger:  log,
	}
	p.w = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // mesma chave (id do pedido), mesma partição
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error("Falha ao entregar eventos ao Kafka.", err)
			}
		},
	}
	go p.loop()
	return p
}

func (p *KafkaPublisher) loop() {
	defer close(p.closeCh)
	for m := range p.inbox {
		if err := p.w.WriteMessages(context.Background(), m); err != nil {
			p.logger.Error("Falha ao escrever evento no Kafka.", err)
		}
	}
	if err := p.w.Close(); err != nil {
		p.logger.Error("Falha ao fechar writer Kafka.", err)
	}
}

// Publish enfileira o envelope; bloqueia apenas se a fila estiver cheia.
func (p *KafkaPublisher) Publish(ctx context.Context, env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(env.CorrelationID),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close fecha a fila, espera o loop entregar o que restou e fecha o Writer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.inbox)
	p.mu.Unlock()

	<-p.closeCh
	return nil
}
