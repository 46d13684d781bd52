package signer

import (
	"errors"
	"fmt"
	"strings"
)

// Environment variable names the secrets are provisioned under
const (
	APIKeyEnv     = "CASAGATEWAY_API_KEY"
	PrivateKeyEnv = "CASAGATEWAY_PRIVATE_KEY"
)

// Common signer error types
var (
	ErrMissingSecret = errors.New("signing secret not configured")
	ErrUnknownParam  = errors.New("parameter is not signable")
)

// ConfigurationError reports which secrets are missing. It never carries the
// secret values themselves.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Please set %s in the environment", strings.Join(e.Missing, " and "))
}

func (e *ConfigurationError) Unwrap() error {
	return ErrMissingSecret
}

// IsConfigurationError returns true if err was caused by missing secrets
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
