// Package kafkastore persists the engine snapshot as the newest record
// of a Kafka topic.
//
// Save produces one record holding the full blob; Load reads the last
// record of partition 0. The topic acts as a snapshot history with the
// newest record being the single current snapshot; retention is the
// broker's business. Single writer per topic is assumed.
package kafkastore

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// DefaultLoadTimeout bounds the startup fetch for the newest snapshot.
const DefaultLoadTimeout = 10 * time.Second

// Config configures the Kafka store.
type Config struct {
	// Brokers are the seed broker addresses.
	Brokers []string

	// Topic holds the snapshot records. Must be dedicated to one
	// pipeline.
	Topic string

	// ClientID identifies this client to the broker.
	ClientID string

	// LoadTimeout bounds how long Load waits for the newest record.
	LoadTimeout time.Duration
}

// Store is a Kafka-backed snapshot store.
type Store struct {
	cfg      Config
	producer *kgo.Client
}

// New creates a Kafka store and its producer client.
func New(cfg Config) (*Store, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafkastore: brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafkastore: topic is required")
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "loghive"
	}

	producer, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.DefaultProduceTopic(cfg.Topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafkastore: create producer: %w", err)
	}

	return &Store{cfg: cfg, producer: producer}, nil
}

// Load fetches the newest snapshot record, or returns (nil, nil) when
// the topic is empty.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.cfg.Brokers...),
		kgo.ClientID(s.cfg.ClientID),
		kgo.ConsumePartitions(map[string]map[int32]kgo.Offset{
			s.cfg.Topic: {0: kgo.NewOffset().AtEnd().Relative(-1)},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("kafkastore: create consumer: %w", err)
	}
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.LoadTimeout)
	defer cancel()

	fetches := consumer.PollFetches(fetchCtx)
	if err := fetches.Err0(); err != nil && fetchCtx.Err() == nil {
		return nil, fmt.Errorf("kafkastore: fetch: %w", err)
	}

	var newest *kgo.Record
	iter := fetches.RecordIter()
	for !iter.Done() {
		newest = iter.Next()
	}
	if newest == nil {
		// Empty topic, or nothing arrived before the deadline: treated as
		// no prior snapshot.
		return nil, nil
	}
	return newest.Value, nil
}

// Save produces the snapshot and waits for broker acknowledgement.
func (s *Store) Save(ctx context.Context, state []byte) error {
	res := s.producer.ProduceSync(ctx, &kgo.Record{Value: state})
	if err := res.FirstErr(); err != nil {
		return fmt.Errorf("kafkastore: produce: %w", err)
	}
	return nil
}

// Close closes the producer client.
func (s *Store) Close() error {
	s.producer.Close()
	return nil
}
