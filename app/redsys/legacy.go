package redsys

import (
	"crypto/hmac"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// XML renders the set as the DATOSENTRADA block of the legacy entry service.
func (p *ParameterSet) XML() string {
	var b strings.Builder
	b.WriteString("<DATOSENTRADA>")
	for _, key := range p.keys {
		b.WriteString("<" + key + ">")
		_ = xml.EscapeText(&b, []byte(xmlValue(p.values[key])))
		b.WriteString("</" + key + ">")
	}
	b.WriteString("</DATOSENTRADA>")
	return b.String()
}

func xmlValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// BuildXMLRequest signs the DATOSENTRADA block and wraps it in the REQUEST
// document sent to the legacy entry service.
func BuildXMLRequest(params *ParameterSet, secretBase64 string) (string, error) {
	if params == nil {
		return "", invalid("parameters", "are required")
	}
	for _, field := range requiredFields {
		if field == FieldMerchantURL || field == FieldURLOK || field == FieldURLKO {
			continue
		}
		if !params.Has(field) {
			return "", invalid(field, "is required")
		}
	}

	data := params.XML()
	signature, err := SignBase64(data, params.Order(), secretBase64)
	if err != nil {
		return "", err
	}
	params.sealed = true

	return "<REQUEST>" + data +
		"<DS_SIGNATUREVERSION>" + SignatureVersion + "</DS_SIGNATUREVERSION>" +
		"<DS_SIGNATURE>" + signature + "</DS_SIGNATURE>" +
		"</REQUEST>", nil
}

// LegacyResponse is the RETORNOXML document returned by the entry service.
type LegacyResponse struct {
	Code      string
	Operation map[string]string
	Received  map[string]any
}

func ParseLegacyResponse(document string) (*LegacyResponse, error) {
	root, err := XMLToMap(document)
	if err != nil {
		return nil, err
	}

	resp := &LegacyResponse{Operation: map[string]string{}}
	resp.Code, _ = root["CODIGO"].(string)
	if op, ok := root["OPERACION"].(map[string]any); ok {
		for k, v := range op {
			if s, ok := v.(string); ok {
				resp.Operation[k] = s
			}
		}
	}
	resp.Received, _ = root["RECIBIDO"].(map[string]any)
	return resp, nil
}

// Valid reports whether CODIGO is numeric and Ds_Response is a success code.
func (r *LegacyResponse) Valid() bool {
	if !isNumeric(r.Code) {
		return false
	}
	code := r.Operation[NotifyResponse]
	return isNumeric(code) && IsSuccessCode(code)
}

// ErrorCode returns CODIGO when it is a SIS error code, and Ds_Response
// otherwise.
func (r *LegacyResponse) ErrorCode() string {
	if !isNumeric(r.Code) {
		return r.Code
	}
	return r.Operation[NotifyResponse]
}

// Check returns a DeclinedError for failed operations and a VerificationError
// when the operation signature does not match.
func (r *LegacyResponse) Check(secretBase64 string) error {
	if !r.Valid() {
		code := r.ErrorCode()
		return &DeclinedError{Code: code, Message: MessageByCode(code)}
	}
	ok, err := CheckLegacySignature(r.Operation, secretBase64)
	if err != nil {
		return err
	}
	if !ok {
		return &VerificationError{Kind: SignatureMismatch}
	}
	return nil
}

// CheckLegacySignature verifies the OPERACION block of a legacy response. The
// gateway signs a concatenation of fields that includes the card number in
// some response shapes and omits it in others, so both are tried.
func CheckLegacySignature(op map[string]string, secretBase64 string) (bool, error) {
	order := op[NotifyOrder]
	if order == "" {
		return false, &VerificationError{Kind: MissingField, Detail: NotifyOrder}
	}
	received := op["Ds_Signature"]
	if received == "" {
		return false, &VerificationError{Kind: MissingField, Detail: "Ds_Signature"}
	}

	head := op[NotifyAmount] + order + op[NotifyMerchantCode] + op[NotifyCurrency] + op[NotifyResponse]
	tail := op[NotifyTransactionType] + op[NotifySecurePayment]

	for _, candidate := range []string{head + op[NotifyCardNumber] + tail, head + tail} {
		signature, err := SignBase64(candidate, order, secretBase64)
		if err != nil {
			return false, err
		}
		if hmac.Equal([]byte(signature), []byte(received)) {
			return true, nil
		}
	}
	return false, nil
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}
