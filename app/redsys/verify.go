package redsys

import (
	"crypto/hmac"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	NotifyOrder             = "Ds_Order"
	NotifyResponse          = "Ds_Response"
	NotifyAmount            = "Ds_Amount"
	NotifyCurrency          = "Ds_Currency"
	NotifyAuthorisationCode = "Ds_AuthorisationCode"
	NotifyMerchantCode      = "Ds_MerchantCode"
	NotifyTransactionType   = "Ds_TransactionType"
	NotifySecurePayment     = "Ds_SecurePayment"
	NotifyCardNumber        = "Ds_CardNumber"
	NotifyMerchantData      = "Ds_MerchantData"
)

// NotificationPayload is the form posted by the gateway. Parameters and
// signature arrive in URL safe Base64.
type NotificationPayload struct {
	SignatureVersion   string `json:"Ds_SignatureVersion" form:"Ds_SignatureVersion"`
	MerchantParameters string `json:"Ds_MerchantParameters" form:"Ds_MerchantParameters"`
	Signature          string `json:"Ds_Signature" form:"Ds_Signature"`
}

// VerifiedNotification holds the decoded fields of an authenticated
// notification.
type VerifiedNotification struct {
	fields map[string]any
}

// Verify authenticates a notification. The signature is recomputed over the
// encoded parameters exactly as received, so any change to them, or to the
// signature, yields a SignatureMismatch.
func Verify(payload NotificationPayload, secretBase64 string) (*VerifiedNotification, error) {
	version := strings.TrimSpace(payload.SignatureVersion)
	encoded := strings.TrimSpace(payload.MerchantParameters)
	received := strings.TrimSpace(payload.Signature)

	switch {
	case version == "":
		return nil, &VerificationError{Kind: MissingField, Detail: FormSignatureVersion}
	case encoded == "":
		return nil, &VerificationError{Kind: MissingField, Detail: FormMerchantParameters}
	case received == "":
		return nil, &VerificationError{Kind: MissingField, Detail: FormSignature}
	}
	if version != SignatureVersion {
		return nil, &VerificationError{Kind: MalformedPayload, Detail: "unsupported signature version " + version}
	}

	decoded, err := Base64URLDecode(encoded)
	if err != nil {
		return nil, &VerificationError{Kind: MalformedPayload, Err: err}
	}
	fields, err := JSONDecode(string(decoded))
	if err != nil {
		return nil, &VerificationError{Kind: MalformedPayload, Err: err}
	}

	notification := &VerifiedNotification{fields: fields}
	order := notification.Order()
	if order == "" {
		return nil, &VerificationError{Kind: MalformedPayload, Detail: "missing " + NotifyOrder}
	}

	expected, err := SignBase64(encoded, order, secretBase64)
	if err != nil {
		return nil, err
	}
	if !hmac.Equal([]byte(toURLSafe.Replace(expected)), []byte(received)) {
		return nil, &VerificationError{Kind: SignatureMismatch}
	}

	return notification, nil
}

// IsSuccessCode reports whether a Ds_Response value means an authorised
// operation: 0 to 99, 900 for refunds and 400 for cancellations.
func IsSuccessCode(code string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return false
	}
	return (n >= 0 && n < 100) || n == 900 || n == 400
}

// Fields returns a copy of the decoded parameters.
func (n *VerifiedNotification) Fields() map[string]any {
	out := make(map[string]any, len(n.fields))
	for k, v := range n.fields {
		out[k] = v
	}
	return out
}

// Get returns a field as a string. Keys are matched case insensitively since
// the gateway is not consistent between Ds_ and DS_ prefixes.
func (n *VerifiedNotification) Get(key string) (string, bool) {
	value, ok := n.fields[key]
	if !ok {
		for k, v := range n.fields {
			if strings.EqualFold(k, key) {
				value, ok = v, true
				break
			}
		}
	}
	if !ok || value == nil {
		return "", false
	}

	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return fmt.Sprint(v), true
	}
}

func (n *VerifiedNotification) value(key string) string {
	v, _ := n.Get(key)
	return strings.TrimSpace(v)
}

func (n *VerifiedNotification) Order() string             { return n.value(NotifyOrder) }
func (n *VerifiedNotification) ResponseCode() string      { return n.value(NotifyResponse) }
func (n *VerifiedNotification) AuthorisationCode() string { return n.value(NotifyAuthorisationCode) }
func (n *VerifiedNotification) Currency() string          { return n.value(NotifyCurrency) }
func (n *VerifiedNotification) MerchantCode() string      { return n.value(NotifyMerchantCode) }
func (n *VerifiedNotification) TransactionType() string   { return n.value(NotifyTransactionType) }
func (n *VerifiedNotification) SecurePayment() string     { return n.value(NotifySecurePayment) }
func (n *VerifiedNotification) CardNumber() string        { return n.value(NotifyCardNumber) }
func (n *VerifiedNotification) MerchantData() string      { return n.value(NotifyMerchantData) }

// Amount returns Ds_Amount in minor units.
func (n *VerifiedNotification) Amount() (int64, error) {
	raw := n.value(NotifyAmount)
	if raw == "" {
		return 0, errors.New("redsys: notification has no " + NotifyAmount)
	}
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redsys: invalid %s %q", NotifyAmount, raw)
	}
	return amount, nil
}

func (n *VerifiedNotification) Approved() bool {
	return IsSuccessCode(n.ResponseCode())
}

// Result returns nil for approved operations and a DeclinedError carrying the
// catalogued description otherwise.
func (n *VerifiedNotification) Result() error {
	if n.Approved() {
		return nil
	}
	code := n.ResponseCode()
	return &DeclinedError{Code: code, Message: MessageByCode(code)}
}
