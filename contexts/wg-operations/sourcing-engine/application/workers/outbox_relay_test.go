package workers

import (
	"context"
	"testing"
	"time"

	"aucta/contexts/wg-operations/sourcing-engine/adapters/memory"
	"aucta/contexts/wg-operations/sourcing-engine/application"
	"aucta/contexts/wg-operations/sourcing-engine/ports"
)

type capturePublisher struct {
	topics    []string
	envelopes []ports.EventEnvelope
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.topics = append(p.topics, topic)
	p.envelopes = append(p.envelopes, event)
	return nil
}

func TestOutboxRelayPublishesAndMarksRows(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	service := application.Service{
		Repo:   store,
		Outbox: store,
		Clock:  fixedClock{now: now},
		IDGen:  &seqIDs{},
	}
	if _, err := service.OpenEpisode(context.Background(), ports.OpenEpisodeInput{
		ShipmentID:     "ship-1",
		RequestedBy:    "ops-lead",
		SLATargetAt:    now.Add(2 * time.Hour),
		RequiredCities: []string{"Paris"},
	}); err != nil {
		t.Fatalf("open episode failed: %v", err)
	}

	publisher := &capturePublisher{}
	relay := OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     fixedClock{now: now.Add(time.Minute)},
		Topic:     "wg.sourcing.events",
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.envelopes) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.envelopes))
	}
	if publisher.topics[0] != "wg.sourcing.events" {
		t.Fatalf("unexpected topic %q", publisher.topics[0])
	}
	if publisher.envelopes[0].EventType != "sourcing.episode.opened" {
		t.Fatalf("unexpected event type %q", publisher.envelopes[0].EventType)
	}
	if publisher.envelopes[0].PartitionKey != "ship-1" {
		t.Fatalf("expected shipment partition key, got %q", publisher.envelopes[0].PartitionKey)
	}

	// Published rows stay published: a second run drains nothing.
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(publisher.envelopes) != 1 {
		t.Fatalf("expected no republish, got %d events", len(publisher.envelopes))
	}
}
