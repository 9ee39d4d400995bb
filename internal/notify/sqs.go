package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type SQSAPI interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type SQSPublisher struct {
	client   SQSAPI
	queueURL string
}

func NewSQSPublisher(client SQSAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{client: client, queueURL: queueURL}
}

func NewSQSPublisherFromConfig(cfg aws.Config, queueURL string) *SQSPublisher {
	return NewSQSPublisher(sqs.NewFromConfig(cfg), queueURL)
}

func (p *SQSPublisher) Publish(ctx context.Context, msg Message) error {
	body, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"type":     {DataType: aws.String("String"), StringValue: aws.String(msg.Type)},
			"priority": {DataType: aws.String("String"), StringValue: aws.String(msg.Priority)},
		},
	})
	if err != nil {
		return fmt.Errorf("sending to sqs: %w", err)
	}
	return nil
}

func (p *SQSPublisher) Close() error { return nil }
