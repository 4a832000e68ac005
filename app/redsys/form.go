package redsys

import (
	"html/template"
	"io"
)

type FormOptions struct {
	Name        string
	ID          string
	SubmitLabel string
	AutoSubmit  bool
}

var redirectForm = template.Must(template.New("redirect").Parse(`<form action="{{.Endpoint}}" method="post" id="{{.ID}}" name="{{.Name}}">
  <input type="hidden" name="Ds_SignatureVersion" value="{{.Request.SignatureVersion}}"/>
  <input type="hidden" name="Ds_MerchantParameters" value="{{.Request.MerchantParameters}}"/>
  <input type="hidden" name="Ds_Signature" value="{{.Request.Signature}}"/>
  <input type="submit" value="{{.SubmitLabel}}"/>
</form>
{{- if .AutoSubmit}}
<script>document.getElementById({{.ID}}).submit();</script>
{{- end}}
`))

// RenderRedirectForm writes the HTML form that posts a signed request to the
// gateway.
func RenderRedirectForm(w io.Writer, endpoint string, req SignedRequest, opts FormOptions) error {
	if opts.Name == "" {
		opts.Name = "redsys_form"
	}
	if opts.ID == "" {
		opts.ID = opts.Name
	}
	if opts.SubmitLabel == "" {
		opts.SubmitLabel = "Pay"
	}

	return redirectForm.Execute(w, struct {
		FormOptions
		Endpoint string
		Request  SignedRequest
	}{FormOptions: opts, Endpoint: endpoint, Request: req})
}
