// Package config loads client configuration with Viper.
//
// Values come from an optional YAML file, an optional .env file and
// environment variables named after the client, later sources winning:
//
//	cfg, err := config.LoadClient("billing-api")
//	// reads ./config/billing-api.yml, .env.billing-api, BILLING_API_BASE_URL, ...
//
// The resulting ClientConfig feeds httpclient.FromConfig.
package config
