package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

var ErrEmptySecret = errors.New("secret has no string value")

type SecretsAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type Resolver struct {
	client SecretsAPI
}

func NewResolver(client SecretsAPI) *Resolver {
	return &Resolver{client: client}
}

func NewResolverFromConfig(cfg aws.Config) *Resolver {
	return NewResolver(secretsmanager.NewFromConfig(cfg))
}

// Resolve returns the current string value of the secret identified by id
// (name or ARN).
func (r *Resolver) Resolve(ctx context.Context, id string) (string, error) {
	out, err := r.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return "", fmt.Errorf("fetching secret %s: %w", id, err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return "", fmt.Errorf("secret %s: %w", id, ErrEmptySecret)
	}
	return *out.SecretString, nil
}
