package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flightscout/internal/domain/flight"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AMADEUS_API_KEY", "key")
	t.Setenv("AMADEUS_API_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://test.api.amadeus.com", cfg.Amadeus.BaseURL)
	assert.Equal(t, 20, cfg.Search.MaxResults)
	assert.Equal(t, 1, cfg.Search.Adults)
	assert.Equal(t, "USD", cfg.Search.Currency)
	assert.Equal(t, 10, cfg.Search.PageSize)
	assert.Equal(t, 500.0, cfg.Search.FallbackBasePrice)
	assert.Equal(t, 500*time.Millisecond, cfg.Lookup.Debounce)
	assert.Equal(t, 2, cfg.Lookup.MinQueryLength)
	assert.False(t, cfg.NATS.Enabled)
	assert.Equal(t, "search", cfg.NATS.SubjectPrefix)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AMADEUS_API_KEY", "key")
	t.Setenv("AMADEUS_API_SECRET", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOOKUP_DEBOUNCE", "250ms")
	t.Setenv("NATS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CorsOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.Lookup.Debounce)
	assert.True(t, cfg.NATS.Enabled)
}

func TestLoad_MissingCredentials(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		secret  string
		wantKey string
	}{
		{name: "no key", secret: "secret", wantKey: "AMADEUS_API_KEY"},
		{name: "no secret", key: "key", wantKey: "AMADEUS_API_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("AMADEUS_API_KEY", tt.key)
			t.Setenv("AMADEUS_API_SECRET", tt.secret)
			t.Setenv("AMADEUS_SECRET_ID", "")

			_, err := Load()
			var cfgErr *flight.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestLoad_SecretIDDefersCredentialCheck(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AMADEUS_API_KEY", "")
	t.Setenv("AMADEUS_API_SECRET", "")
	t.Setenv("AMADEUS_SECRET_ID", "prod/amadeus")

	_, err := Load()
	require.NoError(t, err)
}

type SecretsManagerMock struct {
	secretsmanageriface.SecretsManagerAPI
	mock.Mock
}

func (m *SecretsManagerMock) GetSecretValueWithContext(ctx aws.Context, in *secretsmanager.GetSecretValueInput, opts ...request.Option) (*secretsmanager.GetSecretValueOutput, error) {
	args := m.Called(aws.StringValue(in.SecretId))
	out, _ := args.Get(0).(*secretsmanager.GetSecretValueOutput)
	return out, args.Error(1)
}

func TestResolveCredentials(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AmadeusConfig
		mocker  func(m *SecretsManagerMock)
		want    AmadeusConfig
		wantErr bool
	}{
		{
			name: "env credentials without secret",
			cfg:  AmadeusConfig{APIKey: "k", APISecret: "s"},
			want: AmadeusConfig{APIKey: "k", APISecret: "s"},
		},
		{
			name: "secret fills credentials",
			cfg:  AmadeusConfig{SecretID: "prod/amadeus"},
			mocker: func(m *SecretsManagerMock) {
				m.On("GetSecretValueWithContext", "prod/amadeus").Return(&secretsmanager.GetSecretValueOutput{
					SecretString: aws.String(`{"api_key":"sk","api_secret":"ss"}`),
				}, nil).Once()
			},
			want: AmadeusConfig{SecretID: "prod/amadeus", APIKey: "sk", APISecret: "ss"},
		},
		{
			name: "secret read failure",
			cfg:  AmadeusConfig{SecretID: "prod/amadeus"},
			mocker: func(m *SecretsManagerMock) {
				m.On("GetSecretValueWithContext", "prod/amadeus").Return(nil, errors.New("AccessDenied")).Once()
			},
			wantErr: true,
		},
		{
			name: "secret missing a field",
			cfg:  AmadeusConfig{SecretID: "prod/amadeus"},
			mocker: func(m *SecretsManagerMock) {
				m.On("GetSecretValueWithContext", "prod/amadeus").Return(&secretsmanager.GetSecretValueOutput{
					SecretString: aws.String(`{"api_key":"sk"}`),
				}, nil).Once()
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &SecretsManagerMock{}
			if tt.mocker != nil {
				tt.mocker(client)
			}

			got, err := ResolveCredentials(context.Background(), tt.cfg, client)
			if tt.wantErr {
				var cfgErr *flight.ConfigError
				require.True(t, errors.As(err, &cfgErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			client.AssertExpectations(t)
		})
	}
}
