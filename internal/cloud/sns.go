package cloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSClient wraps AWS SNS for tank threshold notifications.
type SNSClient struct {
	svc      *sns.Client
	topicArn string
	ctx      context.Context
}

func NewSNSClient(region, topicArn string) (*SNSClient, error) {
	ctx := context.Background()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &SNSClient{
		svc:      sns.NewFromConfig(cfg),
		topicArn: topicArn,
		ctx:      ctx,
	}, nil
}

// SendLevelAlert publishes one notification for a crossed tank threshold.
func (c *SNSClient) SendLevelAlert(tankID int, alertType string, percentage, threshold int) error {
	subject := fmt.Sprintf("Tank Monitor: %s level alert for tank %d", strings.ToUpper(alertType), tankID)
	message := fmt.Sprintf(
		"Tank Level Alert\n\n"+
			"Tank: %d\n"+
			"Alert: %s\n"+
			"Fill level: %d%%\n"+
			"Threshold: %d%%\n"+
			"Time: %s\n",
		tankID,
		alertType,
		percentage,
		threshold,
		time.Now().Format(time.RFC3339),
	)

	input := &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	}

	if _, err := c.svc.Publish(c.ctx, input); err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}
	return nil
}
