package events

import (
	"fmt"

	"cargo-broker/internal/config"
	"cargo-broker/internal/logger"
	"cargo-broker/pkg/mqtt"

	"go.uber.org/zap"
)

// NewPublisher builds the publisher selected by EVENTS_DRIVER.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	switch cfg.Events.Driver {
	case "log", "":
		return LogPublisher{}, nil

	case "mqtt":
		client := mqtt.NewClient(&mqtt.Config{
			Broker:         cfg.MQTT.Broker,
			ClientID:       cfg.MQTT.ClientID,
			Username:       cfg.MQTT.Username,
			Password:       cfg.MQTT.Password,
			CleanSession:   true,
			KeepAlive:      cfg.MQTT.KeepAlive,
			ConnectTimeout: cfg.MQTT.ConnectTimeout,
			AutoReconnect:  true,
		})
		if err := client.Connect(); err != nil {
			return nil, err
		}
		return NewMQTTPublisher(client, cfg.Events.TopicPrefix), nil

	case "kafka":
		logger.Info("Publishing events to kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
		return NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic), nil

	case "amqp":
		return NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
	}

	return nil, fmt.Errorf("unsupported events driver %q", cfg.Events.Driver)
}
