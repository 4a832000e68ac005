package redsys

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildXMLRequest(t *testing.T) {
	params, err := testMerchant().NewParameterSet()
	require.NoError(t, err)
	require.NoError(t, params.SetOrder("000012345"))
	require.NoError(t, params.SetAmountMinor(1250))
	require.NoError(t, params.SetProductDescription("Tea & <biscuits>"))

	data := params.XML()
	require.True(t, strings.HasPrefix(data, "<DATOSENTRADA><DS_MERCHANT_MERCHANTCODE>999008881</DS_MERCHANT_MERCHANTCODE>"))
	require.Contains(t, data, "<DS_MERCHANT_AMOUNT>1250</DS_MERCHANT_AMOUNT>")
	require.Contains(t, data, "Tea &amp; &lt;biscuits&gt;")

	doc, err := BuildXMLRequest(params, exampleSecret)
	require.NoError(t, err)
	require.True(t, params.Sealed())

	signature, err := SignBase64(data, "000012345", exampleSecret)
	require.NoError(t, err)
	require.Equal(t, "<REQUEST>"+data+
		"<DS_SIGNATUREVERSION>HMAC_SHA256_V1</DS_SIGNATUREVERSION>"+
		"<DS_SIGNATURE>"+signature+"</DS_SIGNATURE></REQUEST>", doc)

	parsed, err := XMLToMap(doc)
	require.NoError(t, err)
	require.Equal(t, signature, parsed["DS_SIGNATURE"])
}

func TestBuildXMLRequestRequiresOrder(t *testing.T) {
	params, err := testMerchant().NewParameterSet()
	require.NoError(t, err)
	require.NoError(t, params.SetAmountMinor(1250))

	_, err = BuildXMLRequest(params, exampleSecret)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, FieldOrder, verr.Field)
}

func legacyOperation(t *testing.T, withCard bool) map[string]string {
	t.Helper()

	op := map[string]string{
		"Ds_Amount":          "1250",
		"Ds_Order":           "000012345",
		"Ds_MerchantCode":    "999008881",
		"Ds_Currency":        "978",
		"Ds_Response":        "0000",
		"Ds_CardNumber":      "454881******0004",
		"Ds_TransactionType": "A",
		"Ds_SecurePayment":   "0",
	}
	data := "1250" + "000012345" + "999008881" + "978" + "0000"
	if withCard {
		data += "454881******0004"
	}
	data += "A" + "0"

	signature, err := SignBase64(data, "000012345", exampleSecret)
	require.NoError(t, err)
	op["Ds_Signature"] = signature
	return op
}

func legacyDocument(code string, op map[string]string) string {
	var b strings.Builder
	b.WriteString("<RETORNOXML><CODIGO>" + code + "</CODIGO><OPERACION>")
	for k, v := range op {
		b.WriteString("<" + k + ">" + v + "</" + k + ">")
	}
	b.WriteString("</OPERACION></RETORNOXML>")
	return b.String()
}

func TestLegacyResponseSignatureVariants(t *testing.T) {
	for _, withCard := range []bool{true, false} {
		op := legacyOperation(t, withCard)

		ok, err := CheckLegacySignature(op, exampleSecret)
		require.NoError(t, err)
		require.True(t, ok, "with card: %v", withCard)

		resp, err := ParseLegacyResponse(legacyDocument("0", op))
		require.NoError(t, err)
		require.True(t, resp.Valid())
		require.NoError(t, resp.Check(exampleSecret))
	}
}

func TestLegacyResponseSignatureMismatch(t *testing.T) {
	op := legacyOperation(t, true)
	op["Ds_Amount"] = "99999"

	ok, err := CheckLegacySignature(op, exampleSecret)
	require.NoError(t, err)
	require.False(t, ok)

	resp, err := ParseLegacyResponse(legacyDocument("0", op))
	require.NoError(t, err)
	require.Equal(t, SignatureMismatch, verificationKind(t, resp.Check(exampleSecret)))

	delete(op, "Ds_Signature")
	_, err = CheckLegacySignature(op, exampleSecret)
	require.Equal(t, MissingField, verificationKind(t, err))
}

func TestLegacyResponseErrors(t *testing.T) {
	resp, err := ParseLegacyResponse(`<RETORNOXML><CODIGO>SIS0051</CODIGO><RECIBIDO><REQUEST><DATOSENTRADA><DS_MERCHANT_ORDER>000012345</DS_MERCHANT_ORDER></DATOSENTRADA></REQUEST></RECIBIDO></RETORNOXML>`)
	require.NoError(t, err)
	require.False(t, resp.Valid())
	require.Equal(t, "SIS0051", resp.ErrorCode())
	require.NotNil(t, resp.Received)

	var declined *DeclinedError
	require.True(t, errors.As(resp.Check(exampleSecret), &declined))
	require.Equal(t, "SIS0051", declined.Code)
	require.Equal(t, "Duplicate order number", declined.Description())

	op := legacyOperation(t, true)
	op["Ds_Response"] = "0190"
	resp, err = ParseLegacyResponse(legacyDocument("0", op))
	require.NoError(t, err)
	require.Equal(t, "0190", resp.ErrorCode())
	require.ErrorIs(t, resp.Check(exampleSecret), ErrGatewayDeclined)

	_, err = ParseLegacyResponse("<RETORNOXML>")
	require.ErrorIs(t, err, ErrEncoding)
}
