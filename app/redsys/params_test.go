package redsys

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSetOrder(t *testing.T) {
	cases := map[string]bool{
		"0000123456":    true,
		"1234":          true,
		"123456789012":  true,
		"1234abcd":      true,
		"12":            false,
		"abcd12345678":  false,
		"123a5678":      false,
		"1234567890123": false,
		"":              false,
	}
	for order, ok := range cases {
		err := NewParameterSet().SetOrder(order)
		if ok {
			require.NoError(t, err, order)
		} else {
			require.ErrorIs(t, err, ErrValidation, order)
		}
	}
}

func TestSetAmount(t *testing.T) {
	params := NewParameterSet()
	require.NoError(t, params.SetAmount(decimal.RequireFromString("12.5")))
	v, _ := params.Get(FieldAmount)
	require.Equal(t, int64(1250), v)

	require.NoError(t, params.SetAmount(decimal.RequireFromString("10.999")))
	v, _ = params.Get(FieldAmount)
	require.Equal(t, int64(1099), v)

	require.NoError(t, params.SetAmount(decimal.NewFromFloat(0.29)))
	v, _ = params.Get(FieldAmount)
	require.Equal(t, int64(29), v)

	err := params.SetAmount(decimal.NewFromInt(-1))
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, FieldAmount, verr.Field)

	require.ErrorIs(t, params.SetAmountMinor(-1), ErrValidation)
}

func TestSetterValidation(t *testing.T) {
	params := NewParameterSet()

	require.ErrorIs(t, params.SetMerchantCode("  "), ErrValidation)
	require.ErrorIs(t, params.SetCurrency("EURO"), ErrValidation)
	require.ErrorIs(t, params.SetTerminal(0), ErrValidation)
	require.ErrorIs(t, params.SetNotificationURL("not a url"), ErrValidation)
	require.ErrorIs(t, params.SetSuccessURL(""), ErrValidation)
	require.ErrorIs(t, params.SetLanguage("14"), ErrValidation)
	require.ErrorIs(t, params.SetLanguage("es"), ErrValidation)
	require.ErrorIs(t, params.SetPAN("0"), ErrValidation)
	require.ErrorIs(t, params.SetPAN("4548-8120"), ErrValidation)
	require.ErrorIs(t, params.SetExpiryDate("-123"), ErrValidation)
	require.ErrorIs(t, params.SetExpiryDate("20301"), ErrValidation)
	require.ErrorIs(t, params.SetCVV2("abc"), ErrValidation)
	require.Empty(t, params.Keys())

	require.NoError(t, params.SetCurrency("eur"))
	v, _ := params.Get(FieldCurrency)
	require.Equal(t, "978", v)

	require.NoError(t, params.SetCurrency("840"))
	v, _ = params.Get(FieldCurrency)
	require.Equal(t, "840", v)

	require.NoError(t, params.SetLanguage("001"))
	require.NoError(t, params.SetExpiryDate("3012"))
	require.NoError(t, params.SetCVV2("123"))
	v, _ = params.Get(FieldCVV2)
	require.Equal(t, int64(123), v)
}

func TestSetTitularTruncates(t *testing.T) {
	params := NewParameterSet()
	require.NoError(t, params.SetTitular(strings.Repeat("ñ", 70)))
	v, _ := params.Get(FieldTitular)
	require.Equal(t, strings.Repeat("ñ", 60), v)
}

func TestSetProductDescriptionLength(t *testing.T) {
	params := NewParameterSet()
	require.NoError(t, params.SetProductDescription(strings.Repeat("é", 125)))

	err := NewParameterSet().SetProductDescription(strings.Repeat("x", 126))
	require.ErrorIs(t, err, ErrValidation)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, FieldProductDescription, vErr.Field)
}

func TestParameterSetKeepsInsertionOrder(t *testing.T) {
	params := NewParameterSet()
	require.NoError(t, params.SetOrder("000012345"))
	require.NoError(t, params.SetAmountMinor(1250))
	require.NoError(t, params.SetMerchantCode("999008881"))
	require.NoError(t, params.SetDirectPayment(true))
	require.NoError(t, params.SetAmountMinor(1300))

	require.Equal(t, []string{FieldOrder, FieldAmount, FieldMerchantCode, FieldDirectPayment}, params.Keys())

	out, err := json.Marshal(params)
	require.NoError(t, err)
	require.Equal(t, `{"DS_MERCHANT_ORDER":"000012345","DS_MERCHANT_AMOUNT":1300,"DS_MERCHANT_MERCHANTCODE":"999008881","DS_MERCHANT_DIRECTPAYMENT":true}`, string(out))
}

func TestZeroValueParameterSet(t *testing.T) {
	var params ParameterSet
	require.NoError(t, params.SetOrder("000012345"))
	require.Equal(t, "000012345", params.Order())
}
