package correios

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The accented letter is the single ISO-8859-1 byte 0xE1.
const latin1Rejection = "<?xml version=\"1.0\" encoding=\"ISO-8859-1\" ?>" +
	"<Servicos><cServico><Codigo>40010</Codigo><Valor>0,00</Valor><PrazoEntrega>0</PrazoEntrega>" +
	"<Erro>-3</Erro><MsgErro>CEP de destino inv\xe1lido.</MsgErro></cServico></Servicos>"

const accepted = `<?xml version="1.0" encoding="ISO-8859-1" ?>
<Servicos><cServico><Codigo>40010</Codigo><Valor>1.015,50</Valor><PrazoEntrega>5</PrazoEntrega>
<ValorMaoPropria>0,00</ValorMaoPropria><EntregaDomiciliar>S</EntregaDomiciliar><Erro>0</Erro><MsgErro></MsgErro></cServico></Servicos>`

func TestCalcPrecoPrazo_SendsQueryAndDecodes(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "text/xml; charset=ISO-8859-1")
		_, _ = w.Write([]byte(accepted))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/calculador/CalcPrecoPrazo.aspx", srv.Client())
	require.NoError(t, err)

	resp, err := client.CalcPrecoPrazo(context.Background(), Request{
		ServiceCode:    "40010",
		OriginZip:      "37540-000",
		DestinationZip: "12345678",
		WeightKg:       "6.00",
		Length:         "10",
		Height:         "30",
		Width:          "10",
		Diameter:       "30",
		DeclaredValue:  "60.00",
		ReceiptNotice:  true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Services, 1)
	assert.Equal(t, "0", resp.Services[0].ErrorCode)
	assert.Equal(t, "1015.50", NormalizeDecimal(resp.Services[0].Price))
	assert.Equal(t, "5", resp.Services[0].LeadTimeDays)

	assert.Equal(t, "37540000", query.Get("sCepOrigem"))
	assert.Equal(t, "12345678", query.Get("sCepDestino"))
	assert.Equal(t, "6.00", query.Get("nVlPeso"))
	assert.Equal(t, "1", query.Get("nCdFormato"))
	assert.Equal(t, "N", query.Get("sCdMaoPropria"))
	assert.Equal(t, "S", query.Get("sCdAvisoRecebimento"))
	assert.Equal(t, "60.00", query.Get("nVlValorDeclarado"))
	assert.Equal(t, "xml", query.Get("StrRetorno"))
}

func TestCalcPrecoPrazo_DecodesLatin1(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(latin1Rejection))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)
	resp, err := client.CalcPrecoPrazo(context.Background(), Request{ServiceCode: "40010"})
	require.NoError(t, err)
	require.Len(t, resp.Services, 1)
	assert.Equal(t, "-3", resp.Services[0].ErrorCode)
	assert.Equal(t, "CEP de destino inválido.", resp.Services[0].ErrorMessage)
}

func TestCalcPrecoPrazo_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)
	_, err = client.CalcPrecoPrazo(context.Background(), Request{})
	require.ErrorContains(t, err, "503")
}

func TestNormalizeDecimal(t *testing.T) {
	assert.Equal(t, "15.50", NormalizeDecimal("15,50"))
	assert.Equal(t, "15.50", NormalizeDecimal(" 15.50 "))
	assert.Equal(t, "1234567.89", NormalizeDecimal("1.234.567,89"))
}
