package publishers

import (
	"context"
	"errors"
	"testing"

	"github.com/Adda-Baaj/metrics-harvester/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSPublisherPublishSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "queue", queueURL: "https://example.com/queue", client: client, log: ensureLogger(nil)}

	err := pub.Publish(context.Background(), NewEvent(domain.Result{Endpoint: "total_bandwidth"}))
	require.NoError(t, err)
	require.NotNil(t, client.input)

	assert.Equal(t, "https://example.com/queue", aws.ToString(client.input.QueueUrl))
	attr, ok := client.input.MessageAttributes["endpoint"]
	require.True(t, ok)
	assert.Equal(t, "total_bandwidth", aws.ToString(attr.StringValue))
	assert.Contains(t, aws.ToString(client.input.MessageBody), `"endpoint":"total_bandwidth"`)
	assert.Equal(t, "Number", aws.ToString(client.input.MessageAttributes["lines"].DataType))
}

func TestSQSPublisherPublishError(t *testing.T) {
	pub := &sqsPublisher{id: "queue", queueURL: "q", client: &fakeSQSClient{err: errors.New("boom")}, log: ensureLogger(nil)}

	assert.Error(t, pub.Publish(context.Background(), Event{}))
}
