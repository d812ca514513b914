package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkax "github.com/Jadline/MinoxidilKe-sub001/internal/kafka"
	"github.com/Jadline/MinoxidilKe-sub001/internal/mpesa"
	"github.com/Jadline/MinoxidilKe-sub001/internal/orders"
	"github.com/Jadline/MinoxidilKe-sub001/internal/redisx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

type StatusStore interface {
	UpdateStatus(ctx context.Context, orderID string, to orders.Status) error
}

type PushGateway interface {
	STKPush(ctx context.Context, amount int, phone, reference string) (*mpesa.STKPushResponse, error)
}

// Deduper remembers which events this service finished handling, so a
// redelivered offset is dropped instead of re-running side effects. An
// event is marked only once handling completed; a retryable failure
// leaves it unmarked so the redelivery actually retries.
type Deduper interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

// RedisDeduper marks handled events in redis with the dedup TTL.
type RedisDeduper struct{ RDB *redis.Client }

func (d *RedisDeduper) Seen(ctx context.Context, key string) (bool, error) {
	return redisx.Exists(ctx, d.RDB, key)
}

func (d *RedisDeduper) Mark(ctx context.Context, key string) error {
	return d.RDB.Set(ctx, key, "1", redisx.TTLDedup).Err()
}

// Service initiates the STK push for freshly created push-payment
// orders. Fire-and-forget: the gateway's async callback is someone
// else's problem; checkout never waits on it.
type Service struct {
	Repo         StatusStore
	Dedup        Deduper
	Redis        *redis.Client // status cache, best-effort; nil disables it
	Gateway      PushGateway
	ProducerOK   *kafkax.Producer // publish payment.requested
	ProducerFail *kafkax.Producer // publish payment.failed
	ServiceName  string
}

// HandleOrderCreated is wired as the consumer handler.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated {
		return nil // ignore
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "payments", env.EventID)
	if seen, _ := s.Dedup.Seen(ctx, dkey); seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	// Pay-on-delivery needs no gateway prompt.
	if p.PaymentType != "mpesa" {
		_ = s.Dedup.Mark(ctx, dkey)
		return nil
	}

	resp, err := s.Gateway.STKPush(ctx, p.Total, p.MpesaNumber, p.OrderID)
	if err != nil {
		if resp == nil {
			// transport failure: the event stays unmarked so the
			// redelivery retries the push
			return err
		}
		// gateway rejected; terminal for this attempt
		s.publishFailed(p.OrderID, "GATEWAY_REJECTED: "+resp.ResponseDescription, env.TraceID)
		_ = s.Dedup.Mark(ctx, dkey)
		return nil
	}

	if err := s.Repo.UpdateStatus(ctx, p.OrderID, orders.StatusPaymentRequested); err != nil {
		return err
	}
	if s.Redis != nil {
		statusKey := fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID)
		_ = s.Redis.Set(ctx, statusKey, `{"status":"PAYMENT_REQUESTED"}`, redisx.TTLStatusCache).Err()
	}

	s.publishRequested(p, resp, env.TraceID)
	_ = s.Dedup.Mark(ctx, dkey)
	return nil
}

func (s *Service) publishRequested(p orders.OrderCreatedPayload, resp *mpesa.STKPushResponse, trace string) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventPaymentRequested,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: p.OrderID,
		Payload: kafkax.MustMarshal(orders.PaymentRequestedPayload{
			OrderID:           p.OrderID,
			MerchantRequestID: resp.MerchantRequestID,
			CheckoutRequestID: resp.CheckoutRequestID,
			Amount:            p.Total,
			Phone:             p.MpesaNumber,
		}),
	}
	s.ProducerOK.Publish(orders.PartitionKey(p.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventPaymentRequested)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) publishFailed(orderID, reason, trace string) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventPaymentFailed,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(orders.PaymentFailedPayload{
			OrderID: orderID,
			Reason:  reason,
		}),
	}
	s.ProducerFail.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventPaymentFailed)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
