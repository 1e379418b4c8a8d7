package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port             string `envconfig:"PORT" default:"8080"`
	AWSRegion        string `envconfig:"AWS_REGION" default:"me-south-1"`
	TableName        string `envconfig:"TABLE_NAME" default:"qoot-ordering"`
	KafkaBrokers     string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	DynamoDBEndpoint string `envconfig:"DYNAMODB_ENDPOINT" default:""` // DynamoDB Local endpoint

	// PersistInstructions keeps special instructions in the saved draft.
	// Off by default: the apps treat instructions as session-only, and
	// product has not confirmed that reloads should restore them.
	PersistInstructions bool `envconfig:"PERSIST_INSTRUCTIONS" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
