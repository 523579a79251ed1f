package check

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	"golang.org/x/net/html/charset"
)

// defaultBizBaseURL is the public per-identifier page of cnpj.biz.
const defaultBizBaseURL = "https://cnpj.biz"

// statusRegex is the fallback for pages where the status is not in a
// th/td table: "Situação Cadastral: ATIVA" in the raw HTML.
var statusRegex = regexp.MustCompile(`(?i)Situa[cç][aã]o\s+Cadastral\s*:?\s*(?:</?\w+[^>]*>\s*)*([A-ZÇÃÂÉÍÓÚ]+(?:\s+[A-ZÇÃÂÉÍÓÚ]+)*)`)

// BizProvider scrapes the cnpj.biz company page for one identifier.
type BizProvider struct {
	fetcher Fetcher
	baseURL string
}

var _ Provider = (*BizProvider)(nil)

// NewBizProvider builds the scraper; an empty baseURL uses the public
// site.
func NewBizProvider(f Fetcher, baseURL string) *BizProvider {
	if baseURL == "" {
		baseURL = defaultBizBaseURL
	}
	return &BizProvider{
		fetcher: f,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Name implements Provider.
func (p *BizProvider) Name() string {
	return "CNPJBiz"
}

// Lookup fetches and parses the company page. The result is OK when a
// registration status could be extracted from the page.
func (p *BizProvider) Lookup(ctx context.Context, c cnpj.CNPJ) Result {
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
	if resp.StatusCode != http.StatusOK {
		result.Err = NewErrUnexpectedStatus(resp.StatusCode, result.SourceURL)
		return result
	}

	// The site serves ISO-8859-1 for some pages; decode by Content-Type.
	utf8Body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		result.Err = NewErrPageDecodingFailed(err, result.SourceURL)
		return result
	}

	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		result.Err = NewErrPageParsingFailed(err, result.SourceURL)
		return result
	}

	p.extract(doc, &result)
	result.OK = result.Status != ""

	return result
}

// extract pulls name, status and primary activity code out of the page.
func (p *BizProvider) extract(doc *goquery.Document, result *Result) {
	// Company name: the first heading on the page.
	if heading := doc.Find("h1, h2").First(); heading.Length() > 0 {
		result.Name = collapseSpaces(heading.Text())
	}

	// Registration status: a th labeled "Situação Cadastral" followed
	// by its td, with a raw-HTML regex fallback for non-table layouts.
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		label := normalizeForMatch(th.Text())
		if !strings.Contains(label, "situacao cadastral") {
			return true
		}
		if td := th.NextFiltered("td"); td.Length() > 0 {
			result.Status = collapseSpaces(td.Text())
			return false
		}
		if td := th.Parent().Find("td").First(); td.Length() > 0 {
			result.Status = collapseSpaces(td.Text())
			return false
		}
		return true
	})
	if result.Status == "" {
		if html, err := doc.Html(); err == nil {
			if m := statusRegex.FindStringSubmatch(html); m != nil {
				result.Status = collapseSpaces(m[1])
			}
		}
	}

	// Primary CNAE: same table walk keyed on "CNAE".
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		if !strings.Contains(normalizeForMatch(th.Text()), "cnae") {
			return true
		}
		if td := th.NextFiltered("td"); td.Length() > 0 {
			result.PrimaryCNAE = collapseSpaces(td.Text())
			return false
		}
		if td := th.Parent().Find("td").First(); td.Length() > 0 {
			result.PrimaryCNAE = collapseSpaces(td.Text())
			return false
		}
		return true
	})
}
