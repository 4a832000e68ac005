package redsys

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	FieldAmount             = "DS_MERCHANT_AMOUNT"
	FieldOrder              = "DS_MERCHANT_ORDER"
	FieldMerchantCode       = "DS_MERCHANT_MERCHANTCODE"
	FieldCurrency           = "DS_MERCHANT_CURRENCY"
	FieldTransactionType    = "DS_MERCHANT_TRANSACTIONTYPE"
	FieldTerminal           = "DS_MERCHANT_TERMINAL"
	FieldMerchantURL        = "DS_MERCHANT_MERCHANTURL"
	FieldURLOK              = "DS_MERCHANT_URLOK"
	FieldURLKO              = "DS_MERCHANT_URLKO"
	FieldConsumerLanguage   = "DS_MERCHANT_CONSUMERLANGUAGE"
	FieldPayMethods         = "DS_MERCHANT_PAYMETHODS"
	FieldIdentifier         = "DS_MERCHANT_IDENTIFIER"
	FieldDirectPayment      = "DS_MERCHANT_DIRECTPAYMENT"
	FieldSumTotal           = "DS_MERCHANT_SUMTOTAL"
	FieldMerchantData       = "DS_MERCHANT_MERCHANTDATA"
	FieldProductDescription = "DS_MERCHANT_PRODUCTDESCRIPTION"
	FieldTitular            = "DS_MERCHANT_TITULAR"
	FieldMerchantName       = "DS_MERCHANT_MERCHANTNAME"
	FieldPAN                = "DS_MERCHANT_PAN"
	FieldExpiryDate         = "DS_MERCHANT_EXPIRYDATE"
	FieldCVV2               = "DS_MERCHANT_CVV2"
)

const (
	maxTitularLength            = 60
	maxProductDescriptionLength = 125
)

var (
	hundred  = decimal.NewFromInt(100)
	validate = validator.New()
)

// ParameterSet is the per-request list of merchant fields. Keys keep their
// insertion order when serialized. A set is consumed once by Build and
// rejects every setter afterwards.
type ParameterSet struct {
	keys   []string
	values map[string]any
	sealed bool
}

func NewParameterSet() *ParameterSet {
	return &ParameterSet{values: map[string]any{}}
}

func (p *ParameterSet) set(field string, value any) error {
	if p.sealed {
		return invalid(field, "parameter set has already been signed")
	}
	if p.values == nil {
		p.values = map[string]any{}
	}
	if _, ok := p.values[field]; !ok {
		p.keys = append(p.keys, field)
	}
	p.values[field] = value
	return nil
}

// SetAmount stores a major-unit amount as integer minor units. Digits past
// the second decimal are truncated.
func (p *ParameterSet) SetAmount(amount decimal.Decimal) error {
	minor, err := toMinorUnits(FieldAmount, amount)
	if err != nil {
		return err
	}
	return p.set(FieldAmount, minor)
}

func (p *ParameterSet) SetAmountMinor(amount int64) error {
	if amount < 0 {
		return invalid(FieldAmount, "must be greater than or equal to 0")
	}
	return p.set(FieldAmount, amount)
}

// SetSumTotal sets the total to be charged across recurring payments.
func (p *ParameterSet) SetSumTotal(amount decimal.Decimal) error {
	minor, err := toMinorUnits(FieldSumTotal, amount)
	if err != nil {
		return err
	}
	return p.set(FieldSumTotal, minor)
}

func toMinorUnits(field string, amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, invalid(field, "must be greater than or equal to 0")
	}
	return amount.Mul(hundred).Truncate(0).IntPart(), nil
}

// SetOrder accepts 4 to 12 characters whose first four are digits.
func (p *ParameterSet) SetOrder(order string) error {
	order = strings.TrimSpace(order)
	if !ValidOrder(order) {
		return invalid(FieldOrder, "must be 4 to 12 characters starting with 4 digits")
	}
	return p.set(FieldOrder, order)
}

func ValidOrder(order string) bool {
	if len(order) < 4 || len(order) > 12 {
		return false
	}
	for _, r := range order[:4] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p *ParameterSet) SetMerchantCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return invalid(FieldMerchantCode, "is required")
	}
	return p.set(FieldMerchantCode, code)
}

// SetCurrency takes a numeric ISO 4217 code or a known alphabetic one.
func (p *ParameterSet) SetCurrency(code string) error {
	numeric, ok := NumericCurrency(code)
	if !ok {
		return invalid(FieldCurrency, "must be a 3-digit ISO 4217 code")
	}
	return p.set(FieldCurrency, numeric)
}

func (p *ParameterSet) SetTransactionType(transactionType string) error {
	transactionType = strings.TrimSpace(transactionType)
	if transactionType == "" {
		return invalid(FieldTransactionType, "is required")
	}
	return p.set(FieldTransactionType, transactionType)
}

func (p *ParameterSet) SetTerminal(terminal int64) error {
	if terminal <= 0 {
		return invalid(FieldTerminal, "must be a positive number")
	}
	return p.set(FieldTerminal, terminal)
}

func (p *ParameterSet) SetNotificationURL(rawURL string) error {
	return p.setURL(FieldMerchantURL, rawURL)
}

func (p *ParameterSet) SetSuccessURL(rawURL string) error {
	return p.setURL(FieldURLOK, rawURL)
}

func (p *ParameterSet) SetFailureURL(rawURL string) error {
	return p.setURL(FieldURLKO, rawURL)
}

func (p *ParameterSet) setURL(field, rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if err := validate.Var(rawURL, "required,url"); err != nil {
		return invalid(field, "must be an absolute url")
	}
	return p.set(field, rawURL)
}

// SetLanguage takes the gateway language code, 1 to 13 ("001" is Spanish).
func (p *ParameterSet) SetLanguage(code string) error {
	code = strings.TrimSpace(code)
	n, err := strconv.Atoi(code)
	if err != nil || n < 1 || n > 13 {
		return invalid(FieldConsumerLanguage, "must be between 1 and 13")
	}
	return p.set(FieldConsumerLanguage, code)
}

func (p *ParameterSet) SetPayMethods(methods string) error {
	methods = strings.TrimSpace(methods)
	if methods == "" {
		return invalid(FieldPayMethods, "is required")
	}
	return p.set(FieldPayMethods, methods)
}

// SetIdentifier sets the card reference used for recurring purchases.
func (p *ParameterSet) SetIdentifier(identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return invalid(FieldIdentifier, "is required")
	}
	return p.set(FieldIdentifier, identifier)
}

// SetDirectPayment skips the additional gateway screens when true.
func (p *ParameterSet) SetDirectPayment(direct bool) error {
	return p.set(FieldDirectPayment, direct)
}

func (p *ParameterSet) SetMerchantData(data string) error {
	data = strings.TrimSpace(data)
	if data == "" {
		return invalid(FieldMerchantData, "is required")
	}
	return p.set(FieldMerchantData, data)
}

func (p *ParameterSet) SetProductDescription(description string) error {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > maxProductDescriptionLength {
		return invalid(FieldProductDescription, "must be at most 125 characters")
	}
	return p.set(FieldProductDescription, description)
}

// SetTitular sets the card holder name shown on the receipt, cut to the
// gateway field length.
func (p *ParameterSet) SetTitular(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid(FieldTitular, "is required")
	}
	if runes := []rune(name); len(runes) > maxTitularLength {
		name = string(runes[:maxTitularLength])
	}
	return p.set(FieldTitular, name)
}

func (p *ParameterSet) SetTradeName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid(FieldMerchantName, "is required")
	}
	return p.set(FieldMerchantName, name)
}

func (p *ParameterSet) SetPAN(pan string) error {
	pan = strings.TrimSpace(pan)
	if !nonZeroNumber(pan) {
		return invalid(FieldPAN, "must be a card number")
	}
	return p.set(FieldPAN, pan)
}

// SetExpiryDate takes the card expiry as YYMM.
func (p *ParameterSet) SetExpiryDate(expiry string) error {
	expiry = strings.TrimSpace(expiry)
	if _, err := strconv.ParseUint(expiry, 10, 16); err != nil || len(expiry) != 4 {
		return invalid(FieldExpiryDate, "must use the YYMM format")
	}
	return p.set(FieldExpiryDate, expiry)
}

func (p *ParameterSet) SetCVV2(cvv string) error {
	cvv = strings.TrimSpace(cvv)
	if !nonZeroNumber(cvv) {
		return invalid(FieldCVV2, "must be a number")
	}
	n, _ := strconv.ParseInt(cvv, 10, 64)
	return p.set(FieldCVV2, n)
}

func nonZeroNumber(value string) bool {
	n, err := strconv.ParseUint(value, 10, 64)
	return err == nil && n > 0
}

func (p *ParameterSet) Has(field string) bool {
	_, ok := p.values[field]
	return ok
}

// Get returns the raw value of a field.
func (p *ParameterSet) Get(field string) (any, bool) {
	v, ok := p.values[field]
	return v, ok
}

// Order returns the order id or an empty string when it is not set.
func (p *ParameterSet) Order() string {
	order, _ := p.values[FieldOrder].(string)
	return order
}

// Keys returns the field names in insertion order.
func (p *ParameterSet) Keys() []string {
	return append([]string(nil), p.keys...)
}

func (p *ParameterSet) Sealed() bool {
	return p.sealed
}

func (p *ParameterSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(p.values[key]); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
