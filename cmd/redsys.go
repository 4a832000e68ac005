package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-redsys/app/provider"
	"github.com/vibast-solutions/ms-go-redsys/app/redsys"
	"github.com/vibast-solutions/ms-go-redsys/config"
)

var (
	signOrder           string
	signAmount          string
	signDescription     string
	signNotificationURL string
	signSuccessURL      string
	signFailureURL      string
	signAsForm          bool

	verifyVersion    string
	verifyParameters string
	verifySignature  string
)

var redsysCmd = &cobra.Command{
	Use:   "redsys",
	Short: "Operator tools for the Redsys gateway",
}

var redsysSignCmd = &cobra.Command{
	Use:   "sign",
	Short: "Build and sign a redirect request with the configured merchant",
	RunE:  runRedsysSign,
}

var redsysVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a gateway notification and print its fields",
	RunE:  runRedsysVerify,
}

var redsysCodeCmd = &cobra.Command{
	Use:   "code <code>",
	Short: "Describe a gateway response or error code",
	Args:  cobra.ExactArgs(1),
	RunE:  runRedsysCode,
}

func init() {
	rootCmd.AddCommand(redsysCmd)
	redsysCmd.AddCommand(redsysSignCmd, redsysVerifyCmd, redsysCodeCmd)

	redsysSignCmd.Flags().StringVar(&signOrder, "order", "", "Order number (4 to 12 characters, the first four numeric)")
	redsysSignCmd.Flags().StringVar(&signAmount, "amount", "", "Amount in major units, e.g. 12.50")
	redsysSignCmd.Flags().StringVar(&signDescription, "description", "", "Product description")
	redsysSignCmd.Flags().StringVar(&signNotificationURL, "notification-url", "", "Merchant notification URL")
	redsysSignCmd.Flags().StringVar(&signSuccessURL, "success-url", "", "Browser return URL on success")
	redsysSignCmd.Flags().StringVar(&signFailureURL, "failure-url", "", "Browser return URL on failure")
	redsysSignCmd.Flags().BoolVar(&signAsForm, "form", false, "Print an HTML form instead of the raw fields")
	_ = redsysSignCmd.MarkFlagRequired("order")
	_ = redsysSignCmd.MarkFlagRequired("amount")

	redsysVerifyCmd.Flags().StringVar(&verifyVersion, "signature-version", redsys.SignatureVersion, "Ds_SignatureVersion")
	redsysVerifyCmd.Flags().StringVar(&verifyParameters, "params", "", "Ds_MerchantParameters")
	redsysVerifyCmd.Flags().StringVar(&verifySignature, "signature", "", "Ds_Signature")
	_ = redsysVerifyCmd.MarkFlagRequired("params")
	_ = redsysVerifyCmd.MarkFlagRequired("signature")
}

func merchantConfig(cfg config.RedsysConfig) (redsys.MerchantConfig, error) {
	env, err := redsys.ParseEnvironment(cfg.Environment)
	if err != nil {
		return redsys.MerchantConfig{}, err
	}

	merchant := redsys.MerchantConfig{
		Environment:     env,
		MerchantCode:    cfg.MerchantCode,
		MerchantName:    cfg.MerchantName,
		Terminal:        cfg.Terminal,
		Currency:        cfg.Currency,
		TransactionType: cfg.TransactionType,
		Language:        cfg.Language,
		PayMethods:      cfg.PayMethods,
	}
	if err := merchant.Validate(); err != nil {
		return redsys.MerchantConfig{}, err
	}
	return merchant, nil
}

func newRedsysProvider(cfg config.RedsysConfig) (*provider.RedsysProvider, error) {
	merchant, err := merchantConfig(cfg)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.MerchantKey) == "" {
		return nil, errors.New("REDSYS_MERCHANT_KEY environment variable is required")
	}

	return provider.NewRedsysProvider(provider.RedsysConfig{
		Merchant:                merchant,
		Secrets:                 redsys.StaticSecret(cfg.MerchantKey),
		ProviderCallbackBaseURL: cfg.ProviderCallbackBaseURL,
		CheckoutBaseURL:         cfg.CheckoutBaseURL,
		SuccessURL:              cfg.SuccessURL,
		FailureURL:              cfg.FailureURL,
	}), nil
}

func runRedsysSign(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadRedsys()
	merchant, err := merchantConfig(cfg)
	if err != nil {
		return err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(signAmount))
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", signAmount, err)
	}

	params, err := merchant.NewParameterSet()
	if err != nil {
		return err
	}
	if err := params.SetOrder(signOrder); err != nil {
		return err
	}
	if err := params.SetAmount(amount); err != nil {
		return err
	}
	notificationURL := firstNonBlank(signNotificationURL, cfg.ProviderCallbackBaseURL)
	if notificationURL != "" {
		if err := params.SetNotificationURL(notificationURL); err != nil {
			return err
		}
	}
	if successURL := firstNonBlank(signSuccessURL, cfg.SuccessURL); successURL != "" {
		if err := params.SetSuccessURL(successURL); err != nil {
			return err
		}
	}
	if failureURL := firstNonBlank(signFailureURL, cfg.FailureURL); failureURL != "" {
		if err := params.SetFailureURL(failureURL); err != nil {
			return err
		}
	}
	if strings.TrimSpace(signDescription) != "" {
		if err := params.SetProductDescription(signDescription); err != nil {
			return err
		}
	}

	secret, err := redsys.StaticSecret(cfg.MerchantKey).MerchantSecret(commandContext(cmd), merchant.MerchantCode, merchant.Terminal)
	if err != nil {
		return err
	}
	signed, err := redsys.Build(params, secret)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if signAsForm {
		return redsys.RenderRedirectForm(out, merchant.Environment.RedirectURL(), signed, redsys.FormOptions{})
	}
	fmt.Fprintf(out, "endpoint: %s\n", merchant.Environment.RedirectURL())
	fmt.Fprintf(out, "%s: %s\n", redsys.FormSignatureVersion, signed.SignatureVersion)
	fmt.Fprintf(out, "%s: %s\n", redsys.FormMerchantParameters, signed.MerchantParameters)
	fmt.Fprintf(out, "%s: %s\n", redsys.FormSignature, signed.Signature)
	return nil
}

func runRedsysVerify(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadRedsys()
	secret, err := redsys.StaticSecret(cfg.MerchantKey).MerchantSecret(commandContext(cmd), cfg.MerchantCode, cfg.Terminal)
	if err != nil {
		return err
	}

	verified, err := redsys.Verify(redsys.NotificationPayload{
		SignatureVersion:   verifyVersion,
		MerchantParameters: verifyParameters,
		Signature:          verifySignature,
	}, secret)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fields := verified.Fields()
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if strings.EqualFold(key, redsys.NotifyCardNumber) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(out, "%s: %v\n", key, fields[key])
	}

	if err := verified.Result(); err != nil {
		fmt.Fprintf(out, "result: declined (%s)\n", err)
		return nil
	}
	fmt.Fprintln(out, "result: approved")
	return nil
}

func runRedsysCode(cmd *cobra.Command, args []string) error {
	msg := redsys.MessageByCode(args[0])
	if msg == nil {
		return fmt.Errorf("unknown redsys code %q", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", msg.Code, msg.Text)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if v := strings.TrimSpace(value); v != "" {
			return v
		}
	}
	return ""
}
