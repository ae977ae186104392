package provider

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTopLevelCode(t *testing.T) {
	out, err := normalize("wallet/balance", 200, []byte(`{"ResponseCode":200,"Data":{"Balance":150.5}}`))
	require.NoError(t, err)
	require.True(t, out.OK())
	require.Equal(t, 200, out.Code)
	require.JSONEq(t, `{"Balance":150.5}`, string(out.Data))
}

func TestNormalizeNestedCode(t *testing.T) {
	body := []byte(`{"Response":{"ResponseCode":404,"Message":"no user found"}}`)
	out, err := normalize("wallet/getuser", 200, body)
	require.NoError(t, err)
	require.False(t, out.OK())
	require.Equal(t, 404, out.Code)
	require.JSONEq(t, `{"ResponseCode":404,"Message":"no user found"}`, string(out.Fault))
}

func TestNormalizeStringCode(t *testing.T) {
	out, err := normalize("wallet/generate", 200, []byte(`{"ResponseCode":"200","Data":{"PhoneNumber":"2348000000000"}}`))
	require.NoError(t, err)
	require.True(t, out.OK())
	require.Equal(t, 200, out.Code)

	out, err = normalize("wallet/generate", 200, []byte(`{"ResponseCode":"403"}`))
	require.NoError(t, err)
	require.False(t, out.OK())
	require.Equal(t, 403, out.Code)
}

func TestNormalizeMissingCodeIsProtocolError(t *testing.T) {
	_, err := normalize("wallet/balance", 200, []byte(`{"something":"else"}`))
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	require.Equal(t, "wallet/balance", protoErr.Endpoint)
}

func TestNormalizeNonObjectUsesHTTPStatus(t *testing.T) {
	out, err := normalize("transfer/banks/all", 200, []byte(`[{"BankCode":"058","BankName":"GTBank"}]`))
	require.NoError(t, err)
	require.True(t, out.OK())
	require.Equal(t, 200, out.Code)

	var banks []Bank
	require.NoError(t, json.Unmarshal(out.Data, &banks))
	require.Len(t, banks, 1)
	require.Equal(t, "058", banks[0].BankCode)
}

func TestNormalizeNonObjectFailureCarriesBody(t *testing.T) {
	out, err := normalize("transfer/banks/all", 502, []byte(`"upstream unavailable"`))
	require.NoError(t, err)
	require.False(t, out.OK())
	require.Equal(t, 502, out.Code)
	require.Equal(t, `"upstream unavailable"`, string(out.Fault))
}

func TestNormalizeMalformedBodyIsTransportError(t *testing.T) {
	_, err := normalize("wallet/balance", 200, []byte(`<html>bad gateway</html>`))
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestNormalizeNullDataFallsBackToWholeBody(t *testing.T) {
	body := []byte(`{"ResponseCode":200,"Data":null,"Message":"ok"}`)
	out, err := normalize("wallet/pin", 200, body)
	require.NoError(t, err)
	require.True(t, out.OK())
	require.JSONEq(t, string(body), string(out.Data))
}

func TestNormalizeFailureWithoutResponseBlockCarriesWholeBody(t *testing.T) {
	body := []byte(`{"ResponseCode":400,"Message":"insufficient balance"}`)
	out, err := normalize("wallet/debit", 200, body)
	require.NoError(t, err)
	require.False(t, out.OK())
	require.Equal(t, 400, out.Code)
	require.JSONEq(t, string(body), string(out.Fault))
}
