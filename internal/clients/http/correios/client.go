// Package correios calls the Correios CalcPrecoPrazo price and lead time service.
package correios

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// DefaultBaseURL is the public HTTP endpoint of the calculator.
const DefaultBaseURL = "http://ws.correios.com.br/calculador/CalcPrecoPrazo.aspx"

// FormatBox is the nCdFormato value for boxes and packages.
const FormatBox = 1

// Request mirrors the CalcPrecoPrazo query parameters. Measures use a decimal point.
type Request struct {
	CompanyCode    string
	Password       string
	ServiceCode    string
	OriginZip      string
	DestinationZip string
	WeightKg       string
	Format         int
	Length         string
	Height         string
	Width          string
	Diameter       string
	OwnHands       bool
	DeclaredValue  string
	ReceiptNotice  bool
}

// Service is one cServico entry of the XML answer.
type Service struct {
	Code         string `xml:"Codigo"`
	Price        string `xml:"Valor"`
	LeadTimeDays string `xml:"PrazoEntrega"`
	OwnHandsFee  string `xml:"ValorMaoPropria"`
	ReceiptFee   string `xml:"ValorAvisoRecebimento"`
	DeclaredFee  string `xml:"ValorValorDeclarado"`
	HomeDelivery string `xml:"EntregaDomiciliar"`
	SaturdayDrop string `xml:"EntregaSabado"`
	ErrorCode    string `xml:"Erro"`
	ErrorMessage string `xml:"MsgErro"`
}

// Response is the Servicos document.
type Response struct {
	XMLName  xml.Name  `xml:"Servicos"`
	Services []Service `xml:"cServico"`
}

// Client issues CalcPrecoPrazo calls over HTTP GET.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient builds a client for baseURL, defaulting to DefaultBaseURL and a 5s timeout.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse correios base URL: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// CalcPrecoPrazo asks for price and lead time of every service in req.ServiceCode.
func (c *Client) CalcPrecoPrazo(ctx context.Context, req Request) (*Response, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("correios client not configured")
	}
	endpoint := *c.baseURL
	endpoint.RawQuery = req.query().Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/xml, text/xml")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call correios: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("correios unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	decoder := xml.NewDecoder(resp.Body)
	decoder.CharsetReader = charset.NewReaderLabel
	var out Response
	if err := decoder.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode correios response: %w", err)
	}
	return &out, nil
}

func (r Request) query() url.Values {
	format := r.Format
	if format == 0 {
		format = FormatBox
	}
	values := url.Values{}
	values.Set("nCdEmpresa", r.CompanyCode)
	values.Set("sDsSenha", r.Password)
	values.Set("nCdServico", r.ServiceCode)
	values.Set("sCepOrigem", digits(r.OriginZip))
	values.Set("sCepDestino", digits(r.DestinationZip))
	values.Set("nVlPeso", r.WeightKg)
	values.Set("nCdFormato", strconv.Itoa(format))
	values.Set("nVlComprimento", r.Length)
	values.Set("nVlAltura", r.Height)
	values.Set("nVlLargura", r.Width)
	values.Set("nVlDiametro", r.Diameter)
	values.Set("sCdMaoPropria", flag(r.OwnHands))
	values.Set("nVlValorDeclarado", r.DeclaredValue)
	values.Set("sCdAvisoRecebimento", flag(r.ReceiptNotice))
	values.Set("StrRetorno", "xml")
	values.Set("nIndicaCalculo", "3")
	return values
}

// NormalizeDecimal turns the carrier's "1.234,56" notation into "1234.56".
func NormalizeDecimal(value string) string {
	value = strings.TrimSpace(value)
	if strings.Contains(value, ",") {
		value = strings.ReplaceAll(value, ".", "")
		value = strings.ReplaceAll(value, ",", ".")
	}
	return value
}

func flag(v bool) string {
	if v {
		return "S"
	}
	return "N"
}

// digits strips the hyphen of formatted ZIP codes such as 37540-000.
func digits(zip string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, zip)
}
