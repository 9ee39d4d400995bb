// Command notification-dispatcher is the Lambda consumer of the sqs outbox.
// It delivers each queued notification over its email and sms channels.
package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/config"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/notify"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/logger"
)

func main() {
	log, err := logger.New(config.LogConfig{
		Level:      envOr("LOG_LEVEL", "info"),
		Format:     "json",
		OutputPath: "stdout",
	}, config.AppConfig{
		Name:        "notification-dispatcher",
		Environment: envOr("APP_ENV", "production"),
		Version:     envOr("APP_VERSION", "0.0.0"),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	d := notify.NewDispatcher(map[string]notify.Sender{
		notification.ChannelEmail: notify.LogSender{Channel: notification.ChannelEmail, Log: log},
		notification.ChannelSMS:   notify.LogSender{Channel: notification.ChannelSMS, Log: log},
	}, log)

	lambda.Start(d.HandleSQS)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
