package check

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	"github.com/tidwall/gjson"
)

// defaultAPIBaseURL is the minhareceita.org open JSON API; it answers
// GET /<digits> with the federal registry record.
const defaultAPIBaseURL = "https://minhareceita.org"

// maxAPIBodyBytes bounds how much of a JSON answer is read; the records
// are a few KB, anything much larger is not the document we expect.
const maxAPIBodyBytes = 4 * 1024 * 1024

// APIProvider resolves identifiers against the open JSON registry API.
type APIProvider struct {
	fetcher Fetcher
	baseURL string
}

var _ Provider = (*APIProvider)(nil)

// NewAPIProvider builds the JSON provider; an empty baseURL uses the
// public API.
func NewAPIProvider(f Fetcher, baseURL string) *APIProvider {
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &APIProvider{
		fetcher: f,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Name implements Provider.
func (p *APIProvider) Name() string {
	return "MinhaReceita"
}

// Lookup fetches the JSON record. A 404 is a clean "not registered"
// answer, not an error: the result simply stays not-OK.
func (p *APIProvider) Lookup(ctx context.Context, c cnpj.CNPJ) Result {
	result := Result{
		Identifier: c,
		SourceURL:  p.baseURL + "/" + c.String(),
	}

	resp, err := Get(ctx, p.fetcher, result.SourceURL)
	if err != nil {
		result.Err = NewErrLookupFailed(err, result.SourceURL)
		return result
	}
	defer drainAndCloseBody(resp.Body)

	result.HTTPStatus = resp.StatusCode
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return result
	default:
		result.Err = NewErrUnexpectedStatus(resp.StatusCode, result.SourceURL)
		return result
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIBodyBytes))
	if err != nil {
		result.Err = NewErrLookupFailed(err, result.SourceURL)
		return result
	}
	if !gjson.ValidBytes(body) {
		result.Err = NewErrPageParsingFailed(nil, result.SourceURL)
		return result
	}

	record := gjson.ParseBytes(body)
	result.Name = record.Get("razao_social").String()
	result.Status = record.Get("descricao_situacao_cadastral").String()
	if cnae := record.Get("cnae_fiscal"); cnae.Exists() && cnae.Int() != 0 {
		result.PrimaryCNAE = cnae.String()
		if desc := record.Get("cnae_fiscal_descricao").String(); desc != "" {
			result.PrimaryCNAE += " - " + desc
		}
	}
	result.OK = result.Status != ""

	return result
}
