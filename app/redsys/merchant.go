package redsys

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Environment string

const (
	EnvironmentTest Environment = "test"
	EnvironmentLive Environment = "live"
)

const (
	liveHost = "https://sis.redsys.es"
	testHost = "https://sis-t.redsys.es:25443"
)

func ParseEnvironment(value string) (Environment, error) {
	switch env := Environment(strings.ToLower(strings.TrimSpace(value))); env {
	case EnvironmentTest, EnvironmentLive:
		return env, nil
	default:
		return "", fmt.Errorf("unknown redsys environment %q, expected test or live", value)
	}
}

func (e Environment) host() string {
	if e == EnvironmentLive {
		return liveHost
	}
	return testHost
}

// RedirectURL is the endpoint the browser form posts to.
func (e Environment) RedirectURL() string {
	return e.host() + "/sis/realizarPago/utf-8"
}

// SOAPURL is the WSDL of the legacy XML entry service.
func (e Environment) SOAPURL() string {
	return e.host() + "/sis/services/SerClsWSEntrada?wsdl"
}

// SecretProvider supplies the Base64 merchant secret for a merchant terminal.
type SecretProvider interface {
	MerchantSecret(ctx context.Context, merchantCode string, terminal int64) (string, error)
}

// StaticSecret serves the same secret for every terminal.
type StaticSecret string

func (s StaticSecret) MerchantSecret(context.Context, string, int64) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", errors.New("redsys merchant secret is not configured")
	}
	return string(s), nil
}

// MerchantConfig holds the per-merchant settings that every request starts
// from. It is passed by value and never changed by request building.
type MerchantConfig struct {
	Environment     Environment
	MerchantCode    string
	MerchantName    string
	Terminal        int64
	Currency        string
	TransactionType string
	Language        string
	PayMethods      string
}

func (c MerchantConfig) Validate() error {
	_, err := c.NewParameterSet()
	return err
}

// NewParameterSet returns a fresh set seeded with the merchant fields.
func (c MerchantConfig) NewParameterSet() (*ParameterSet, error) {
	if _, err := ParseEnvironment(string(c.Environment)); err != nil {
		return nil, err
	}

	params := NewParameterSet()
	if err := params.SetMerchantCode(c.MerchantCode); err != nil {
		return nil, err
	}
	if err := params.SetCurrency(defaultString(c.Currency, "978")); err != nil {
		return nil, err
	}
	if err := params.SetTransactionType(defaultString(c.TransactionType, "0")); err != nil {
		return nil, err
	}
	terminal := c.Terminal
	if terminal == 0 {
		terminal = 1
	}
	if err := params.SetTerminal(terminal); err != nil {
		return nil, err
	}
	if err := params.SetLanguage(defaultString(c.Language, "001")); err != nil {
		return nil, err
	}
	if err := params.SetPayMethods(defaultString(c.PayMethods, "C")); err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.MerchantName) != "" {
		if err := params.SetTradeName(c.MerchantName); err != nil {
			return nil, err
		}
	}
	return params, nil
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
