package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Notifier avisa a equipe sobre um lead novo (hoje: e-mail).
type Notifier interface {
	NotifyLead(ctx context.Context, event LeadSubmittedEvent) error
}

type Worker struct {
	Channel  *amqp.Channel
	Notifier Notifier
	Logger   *zap.Logger
}

func NewWorker(ch *amqp.Channel, notifier Notifier, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		Logger:   logger,
	}
}

// Start registra o consumidor e processa em background até o ctx acabar.
func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		QueueName, // fila
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	go w.Run(ctx, msgs)

	w.Logger.Info("📥 worker aguardando na fila", zap.String("queue", QueueName))
	return nil
}

// Run consome até o canal fechar ou o ctx ser cancelado.
func (w *Worker) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				return
			}
			w.Handle(ctx, d)
		}
	}
}

func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) {
	var event LeadSubmittedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.Logger.Error("❌ JSON inválido na fila, descartando", zap.Error(err))
		// mensagem podre: sem requeue para não travar a fila
		d.Nack(false, false)
		return
	}

	if err := w.Notifier.NotifyLead(ctx, event); err != nil {
		w.Logger.Error("❌ falha ao notificar lead, enviando pra DLQ",
			zap.Strings("lead_ids", event.LeadIDs), zap.Error(err))
		d.Nack(false, false)
		return
	}

	w.Logger.Info("✅ equipe notificada", zap.Strings("lead_ids", event.LeadIDs))
	d.Ack(false)
}
