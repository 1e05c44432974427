package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/drill-recommendation-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("7B"),
		Value:     []byte(`{"class_id":"7B","students":[]}`),
		Topic:     "class-rosters",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("sis")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("7B"), raw.Key)
	assert.JSONEq(t, `{"class_id":"7B","students":[]}`, string(raw.Value))
	assert.Equal(t, "class-rosters", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "sis", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 5, 20, 14, 0, 0, 0, time.UTC)
	rec := domain.Recommendation{ClassID: "7B", GeneratedAt: now}
	out, err := domain.SerializeRecommendation(rec)
	require.NoError(t, err)

	msg := serializeToMessage(out)

	assert.Equal(t, []byte("7B"), msg.Key)
	assert.Contains(t, string(msg.Value), `"class_id":"7B"`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, domain.HeaderClassID, msg.Headers[0].Key)
	assert.Equal(t, []byte("7B"), msg.Headers[0].Value)
	assert.Equal(t, domain.HeaderGeneratedAt, msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
	assert.Equal(t, domain.HeaderMergedDrills, msg.Headers[2].Key)
	assert.Equal(t, []byte("0"), msg.Headers[2].Value)
}

func TestSerializeToMessage_NoHeaders(t *testing.T) {
	msg := serializeToMessage(domain.OutputEvent{Key: []byte("k"), Value: []byte("{}")})
	assert.Empty(t, msg.Headers)
}
