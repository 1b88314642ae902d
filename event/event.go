package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/forgefit/forgefit"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	DefaultDraftTopic = "draft.events"

	TypeDraftCreated = "draft.created"
)

type DraftCreated struct {
	Type      string               `json:"type"`
	DraftId   string               `json:"draftId"`
	OwnerId   forgefit.UserId      `json:"ownerId"`
	Values    forgefit.DraftValues `json:"values"`
	CreatedAt int64                `json:"createdAt"`
}

func NewDraftCreated(draft forgefit.Draft) DraftCreated {
	return DraftCreated{
		Type:      TypeDraftCreated,
		DraftId:   draft.Id,
		OwnerId:   draft.OwnerId,
		Values:    draft.Values,
		CreatedAt: draft.CreatedAt.Unix(),
	}
}

// Sink of kafka messages, satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

var _ forgefit.DraftEvents = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultDraftTopic
	}
	return &KafkaPublisher{Writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: 5 * time.Second,
	}}
}

// Messages are keyed by owner so one user's drafts stay ordered in a partition.
func (p *KafkaPublisher) DraftCreated(ctx context.Context, draft forgefit.Draft) error {
	value, err := json.Marshal(NewDraftCreated(draft))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprint(int64(draft.OwnerId))),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(TypeDraftCreated)},
		},
	})
	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.Writer.Close()
}

// Used when no brokers are configured.
type LogPublisher struct{}

var _ forgefit.DraftEvents = LogPublisher{}

func (LogPublisher) DraftCreated(ctx context.Context, draft forgefit.Draft) error {
	logrus.WithField("draft_id", draft.Id).
		WithField("owner_id", draft.OwnerId).
		Debugln("Draft created.")
	return nil
}
