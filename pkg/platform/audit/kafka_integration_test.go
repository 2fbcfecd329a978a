//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"vetgate/pkg/platform/audit"
	"vetgate/pkg/testutil/containers"
)

func TestKafkaPublisher(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := containers.NewRedpandaContainer(t).Broker
	const topic = "vetgate.audit.test"

	pub, err := audit.NewKafkaPublisher(ctx, []string{broker}, topic)
	require.NoError(t, err)
	defer pub.Close()

	event := audit.NewEvent(audit.CategoryStage, "case-kafka-1")
	event.Stage = "aml"
	event.Decision = "PASS"
	event.SubjectIDHash = audit.HashSubject("666-12-3456")
	require.NoError(t, pub.Emit(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.NotEmpty(t, records)

	assert.Equal(t, "case-kafka-1", string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, "aml", got.Stage)
	assert.Equal(t, "PASS", got.Decision)
	assert.Equal(t, event.SubjectIDHash, got.SubjectIDHash)
}

func TestKafkaPublisherTopicCreationIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := containers.NewRedpandaContainer(t).Broker
	const topic = "vetgate.audit.idempotent"

	first, err := audit.NewKafkaPublisher(ctx, []string{broker}, topic)
	require.NoError(t, err)
	defer first.Close()

	second, err := audit.NewKafkaPublisher(ctx, []string{broker}, topic)
	require.NoError(t, err)
	second.Close()
}
