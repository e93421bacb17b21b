package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsPublisher enqueues dataset events on an SQS queue.
type sqsPublisher struct {
	id       string
	queueURL string
	client   sqsClient
	log      Logger
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.AWSConfig)
	if err != nil {
		return nil, err
	}
	return &sqsPublisher{
		id:       cfg.ID,
		queueURL: cfg.SQS.QueueURL,
		client:   sqs.NewFromConfig(awsCfg),
		log:      ensureLogger(log),
	}, nil
}

func (s *sqsPublisher) ID() string   { return s.id }
func (s *sqsPublisher) Type() string { return TypeSQS }

func (s *sqsPublisher) Publish(ctx context.Context, evt Event) error {
	input, err := sqsMessage(s.queueURL, evt)
	if err != nil {
		return err
	}
	out, err := s.client.SendMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("send message to sqs: %w", err)
	}
	s.log.DebugObj("dataset event queued", "publisher_sqs_delivery", map[string]any{
		"publisher_id": s.id,
		"endpoint":     evt.Endpoint,
		"message_id":   aws.ToString(out.MessageId),
	})
	return nil
}

// sqsMessage carries the event as the JSON body, with the endpoint name and
// line count duplicated as attributes so consumers can filter without parsing.
func sqsMessage(queueURL string, evt Event) (*sqs.SendMessageInput, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"endpoint": {DataType: aws.String("String"), StringValue: aws.String(evt.Endpoint)},
			"lines":    {DataType: aws.String("Number"), StringValue: aws.String(strconv.Itoa(evt.Dataset.Lines))},
		},
	}, nil
}
