package eventbridge

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Labib591/zyra/domain/events"
)

type fakeEventBridge struct {
	inputs []*eventbridge.PutEventsInput
	failed int32
}

func (f *fakeEventBridge) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.inputs = append(f.inputs, params)
	out := &eventbridge.PutEventsOutput{FailedEntryCount: f.failed}
	for range params.Entries {
		entry := types.PutEventsResultEntry{EventId: aws.String("id")}
		if f.failed > 0 {
			entry = types.PutEventsResultEntry{ErrorCode: aws.String("InternalFailure")}
		}
		out.Entries = append(out.Entries, entry)
	}
	return out, nil
}

func TestPublisher_ChunksByTen(t *testing.T) {
	// Arrange
	client := &fakeEventBridge{}
	publisher := NewPublisher(client, "zyra-events", zap.NewNop())
	var evts []events.DomainEvent
	for i := 0; i < 23; i++ {
		evts = append(evts, events.NewBlockEvent(events.TypeMessageAppended, "c1", "b1", "u1", 1))
	}

	// Act
	err := publisher.PublishBatch(context.Background(), evts)

	// Assert
	require.NoError(t, err)
	require.Len(t, client.inputs, 3)
	assert.Len(t, client.inputs[0].Entries, 10)
	assert.Len(t, client.inputs[2].Entries, 3)

	entry := client.inputs[0].Entries[0]
	assert.Equal(t, "zyra-events", aws.ToString(entry.EventBusName))
	assert.Equal(t, Source, aws.ToString(entry.Source))
	assert.Equal(t, events.TypeMessageAppended, aws.ToString(entry.DetailType))

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "c1", detail["aggregate_id"])
}

func TestPublisher_FailedEntries(t *testing.T) {
	client := &fakeEventBridge{failed: 1}
	publisher := NewPublisher(client, "zyra-events", zap.NewNop())

	err := publisher.Publish(context.Background(), events.NewUserRegistered("u1", "credentials"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 events failed")
}

func TestPublisher_Empty(t *testing.T) {
	client := &fakeEventBridge{}

	require.NoError(t, NewPublisher(client, "bus", zap.NewNop()).PublishBatch(context.Background(), nil))
	assert.Empty(t, client.inputs)
}
