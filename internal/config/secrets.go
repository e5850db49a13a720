// internal/config/secrets.go

package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"

	"flightscout/internal/domain/flight"
)

// amadeusSecret is the JSON document stored in Secrets Manager
type amadeusSecret struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
}

// NewSecretsClient creates a Secrets Manager client from the default AWS
// credential chain
func NewSecretsClient() (secretsmanageriface.SecretsManagerAPI, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, &flight.ConfigError{Key: "AWS", Msg: err.Error()}
	}
	return secretsmanager.New(sess), nil
}

// ResolveCredentials fills the API key and secret from Secrets Manager when
// SecretID is set, then checks both are present.
func ResolveCredentials(ctx context.Context, cfg AmadeusConfig, client secretsmanageriface.SecretsManagerAPI) (AmadeusConfig, error) {
	if cfg.SecretID == "" {
		return cfg, ValidateCredentials(cfg)
	}
	if client == nil {
		return cfg, &flight.ConfigError{Key: "AMADEUS_SECRET_ID", Msg: "set but no Secrets Manager client available"}
	}

	out, err := client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(cfg.SecretID),
	})
	if err != nil {
		return cfg, &flight.ConfigError{Key: "AMADEUS_SECRET_ID", Msg: fmt.Sprintf("reading secret: %v", err)}
	}

	var secret amadeusSecret
	if err := json.Unmarshal([]byte(aws.StringValue(out.SecretString)), &secret); err != nil {
		return cfg, &flight.ConfigError{Key: "AMADEUS_SECRET_ID", Msg: fmt.Sprintf("decoding secret: %v", err)}
	}
	if secret.APIKey != "" {
		cfg.APIKey = secret.APIKey
	}
	if secret.APISecret != "" {
		cfg.APISecret = secret.APISecret
	}
	return cfg, ValidateCredentials(cfg)
}
