package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type ParametersGetter interface {
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
}

func FetchAWSParams(ctx context.Context, region string, keys ...string) (map[string]string, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return fetchParams(ctx, ssm.NewFromConfig(cfg), keys...)
}

func fetchParams(ctx context.Context, client ParametersGetter, keys ...string) (map[string]string, error) {
	parameters, err := client.GetParameters(ctx, &ssm.GetParametersInput{
		Names:          keys,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get parameters: %w", err)
	}

	params := make(map[string]string, len(parameters.Parameters))
	for _, param := range parameters.Parameters {
		params[aws.ToString(param.Name)] = aws.ToString(param.Value)
	}

	if len(params) != len(keys) {
		missingKeys := make([]string, 0)
		for _, key := range keys {
			if _, exists := params[key]; !exists {
				missingKeys = append(missingKeys, key)
			}
		}

		return params, fmt.Errorf("missing parameter values: %v", missingKeys)
	}

	return params, nil
}

// ssmKey joins the deployment prefix with a parameter name, e.g.
// "/lawhelp/prod" + "telegram-token".
func ssmKey(prefix, name string) string {
	return strings.TrimRight(prefix, "/") + "/" + name
}
