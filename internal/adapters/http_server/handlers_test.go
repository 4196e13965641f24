package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	server "milheiro/internal/adapters/http_server"
	"milheiro/internal/domain"
)

// ---- fakes ----

type fakeSearcher struct {
	records []domain.Record
	err     error
	panics  bool
	got     domain.SearchQuery
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Record, error) {
	f.calls++
	f.got = q
	if f.panics {
		panic("boom")
	}
	return f.records, f.err
}

func newHandler(s domain.AwardSearcher) http.Handler {
	srv := server.New(server.Options{RequestTimeout: 5 * time.Second})
	srv.MountHandlers(&server.Handlers{S: s})
	return srv.Mux()
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

const validQuery = "/scraper?origin=gru&destination=mia&date=2024-07-01"

// ---- tests ----

func TestIndexAndHealth(t *testing.T) {
	h := newHandler(&fakeSearcher{})

	rr := do(h, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	rr = do(h, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	var meta struct {
		Service   string            `json:"service"`
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &meta))
	require.Equal(t, "Milheiro API", meta.Service)
	require.Equal(t, "/healthz", meta.Endpoints["healthcheck"])
}

func TestScraper_PassesNormalizedQuery(t *testing.T) {
	f := &fakeSearcher{records: []domain.Record{domain.NewRecord([]string{"2024-07-01", "1h", "Smiles"})}}
	rr := do(newHandler(f), http.MethodGet, validQuery)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, `[{"Data":"2024-07-01","Ultima_Visualizacao":"1h","Programa":"Smiles"}]`, rr.Body.String())
	require.Equal(t, "GRU", f.got.Origin())
	require.Equal(t, "MIA", f.got.Destination())
	require.Equal(t, "2024-07-01", f.got.Date())
}

func TestScraper_ValidationSkipsSearch(t *testing.T) {
	f := &fakeSearcher{}
	h := newHandler(f)

	rr := do(h, http.MethodGet, "/scraper")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.JSONEq(t, `{"error":"Parâmetros obrigatórios ausentes: origin, destination, date"}`, rr.Body.String())

	rr = do(h, http.MethodGet, "/scraper?origin=GRUU&destination=MIA&date=2024-07-01")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.JSONEq(t, `{"error":"Códigos IATA devem possuir três letras."}`, rr.Body.String())

	require.Zero(t, f.calls)
}

func TestScraper_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"timeout", domain.ErrUpstreamTimeout, http.StatusGatewayTimeout, `{"error":"Tempo limite excedido ao consultar o seats.aero."}`},
		{"wrapped timeout", fmt.Errorf("fetch: %w", domain.ErrUpstreamTimeout), http.StatusGatewayTimeout, `{"error":"Tempo limite excedido ao consultar o seats.aero."}`},
		{"upstream 503", &domain.UpstreamStatusError{StatusCode: 503}, http.StatusBadGateway, `{"error":"Falha ao acessar seats.aero: 503"}`},
		{"upstream 404", &domain.UpstreamStatusError{StatusCode: 404}, http.StatusBadGateway, `{"error":"Falha ao acessar seats.aero: 404"}`},
		{"upstream 403", &domain.UpstreamStatusError{StatusCode: 403}, http.StatusBadGateway, `{"error":"Falha ao acessar seats.aero: 403"}`},
		{"upstream unknown", &domain.UpstreamStatusError{}, http.StatusBadGateway, `{"error":"Falha ao acessar seats.aero: 502"}`},
		{"upstream 304", &domain.UpstreamStatusError{StatusCode: 304}, http.StatusBadGateway, `{"error":"Falha ao acessar seats.aero: 304"}`},
		{"internal", errors.New("dial tcp: secret detail"), http.StatusInternalServerError, `{"error":"Erro interno inesperado."}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr := do(newHandler(&fakeSearcher{err: c.err}), http.MethodGet, validQuery)
			require.Equal(t, c.status, rr.Code)
			require.JSONEq(t, c.body, rr.Body.String())
		})
	}
}

func TestScraper_EmptyResult(t *testing.T) {
	rr := do(newHandler(&fakeSearcher{records: []domain.Record{}}), http.MethodGet, validQuery)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"mensagem":"Nenhum dado encontrado."}`, rr.Body.String())
}

func TestScraper_PanicBecomesGeneric500(t *testing.T) {
	rr := do(newHandler(&fakeSearcher{panics: true}), http.MethodGet, validQuery)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.JSONEq(t, `{"error":"Erro interno inesperado."}`, rr.Body.String())
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newHandler(&fakeSearcher{})

	rr := do(h, http.MethodGet, "/nope")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), `"error"`)

	rr = do(h, http.MethodPost, "/scraper")
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	require.Contains(t, rr.Body.String(), `"error"`)
}

func TestRequestTimeout(t *testing.T) {
	srv := server.New(server.Options{RequestTimeout: 20 * time.Millisecond})
	srv.MountHandlers(&server.Handlers{S: blockingSearcher{}})

	rr := do(srv.Mux(), http.MethodGet, validQuery)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.JSONEq(t, `{"error":"Tempo limite da requisição excedido."}`, rr.Body.String())
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

type blockingSearcher struct{}

func (blockingSearcher) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Record, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
