package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	destination string
	body        []byte
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, destination string, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{destination: destination, body: body})
	return nil
}

func TestProducer_RoutesToQueues(t *testing.T) {
	sender := &fakeSender{}
	p := NewProducer(sender, "report-q", "email-q")

	require.NoError(t, p.PublishReport(context.Background(), ReportRequestedEvent{JobID: "j1", Month: 3, Year: 2025}))
	require.NoError(t, p.PublishEmail(context.Background(), ReportEmailEvent{JobID: "j1", Recipient: "hr@example.com"}))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "report-q", sender.sent[0].destination)
	assert.Equal(t, "email-q", sender.sent[1].destination)

	var got ReportRequestedEvent
	require.NoError(t, json.Unmarshal(sender.sent[0].body, &got))
	assert.Equal(t, "j1", got.JobID)
	assert.Equal(t, 3, got.Month)
}

func TestProducer_WrapsSendError(t *testing.T) {
	boom := errors.New("queue down")
	p := NewProducer(&fakeSender{err: boom}, "report-q", "email-q")

	err := p.PublishReport(context.Background(), ReportRequestedEvent{JobID: "j1"})
	assert.ErrorIs(t, err, boom)
}

func TestProducer_MarshalError(t *testing.T) {
	sender := &fakeSender{}
	p := NewProducer(sender, "report-q", "email-q")

	err := p.PublishEmail(context.Background(), map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}
