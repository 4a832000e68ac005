package redsys

import "net/url"

const (
	FormMerchantParameters = "Ds_MerchantParameters"
	FormSignature          = "Ds_Signature"
	FormSignatureVersion   = "Ds_SignatureVersion"
)

// SignedRequest is what the browser posts to the gateway.
type SignedRequest struct {
	MerchantParameters string `json:"Ds_MerchantParameters"`
	Signature          string `json:"Ds_Signature"`
	SignatureVersion   string `json:"Ds_SignatureVersion"`
}

func (r SignedRequest) FormValues() url.Values {
	values := url.Values{}
	values.Set(FormSignatureVersion, r.SignatureVersion)
	values.Set(FormMerchantParameters, r.MerchantParameters)
	values.Set(FormSignature, r.Signature)
	return values
}

var requiredFields = []string{
	FieldMerchantCode,
	FieldCurrency,
	FieldTransactionType,
	FieldTerminal,
	FieldOrder,
	FieldAmount,
	FieldMerchantURL,
	FieldURLOK,
	FieldURLKO,
}

// Build serializes params, encodes them in Base64 and signs them with the
// key derived from the order id. The set is sealed on success.
func Build(params *ParameterSet, secretBase64 string) (SignedRequest, error) {
	if params == nil {
		return SignedRequest{}, invalid("parameters", "are required")
	}
	for _, field := range requiredFields {
		if !params.Has(field) {
			return SignedRequest{}, invalid(field, "is required")
		}
	}

	serialized, err := JSONEncode(params)
	if err != nil {
		return SignedRequest{}, err
	}
	encoded := Base64Encode([]byte(serialized))

	signature, err := SignBase64(encoded, params.Order(), secretBase64)
	if err != nil {
		return SignedRequest{}, err
	}

	params.sealed = true
	return SignedRequest{
		MerchantParameters: encoded,
		Signature:          signature,
		SignatureVersion:   SignatureVersion,
	}, nil
}
