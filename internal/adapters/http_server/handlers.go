// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"milheiro/internal/adapters/observability"
	"milheiro/internal/domain"
)

const (
	msgInternal = "Erro interno inesperado."
	msgTimeout  = "Tempo limite excedido ao consultar o seats.aero."
	msgNoData   = "Nenhum dado encontrado."
)

type Handlers struct{ S domain.AwardSearcher }

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Mensagem string `json:"mensagem"`
}

type serviceInfo struct {
	Service       string            `json:"service"`
	Documentation string            `json:"documentation"`
	Endpoints     map[string]string `json:"endpoints"`
}

var info = serviceInfo{
	Service:       "Milheiro API",
	Documentation: "Consulte o README para instruções de uso.",
	Endpoints: map[string]string{
		"healthcheck": "/healthz",
		"scraper":     "/scraper?origin=GRU&destination=MIA&date=2024-07-01",
	},
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, info) })
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.mux.Get("/scraper", h.scraper)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal JSON response")
		status = http.StatusInternalServerError
		body = []byte(`{"error":"` + msgInternal + `"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func (h *Handlers) scraper(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q, err := domain.NewSearchQuery(qs.Get("date"), qs.Get("origin"), qs.Get("destination"))
	if err != nil {
		observability.ObserveScrape("invalid")
		h.fail(w, r, err)
		return
	}

	records, err := h.S.Search(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if len(records) == 0 {
		observability.ObserveScrape("empty")
		writeJSON(w, http.StatusOK, messageBody{Mensagem: msgNoData})
		return
	}
	observability.ObserveScrape("ok")
	writeJSON(w, http.StatusOK, records)
}

// fail is the only place pipeline errors become HTTP statuses.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	var se *domain.UpstreamStatusError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)

	case errors.Is(err, domain.ErrUpstreamTimeout):
		observability.ObserveScrape("timeout")
		writeError(w, http.StatusGatewayTimeout, msgTimeout)

	case errors.As(err, &se):
		observability.ObserveScrape("upstream_error")
		code := se.StatusCode
		if code == 0 {
			code = http.StatusBadGateway
		}
		// always 502; the upstream code only goes in the message
		writeError(w, http.StatusBadGateway, "Falha ao acessar seats.aero: "+strconv.Itoa(code))

	default:
		observability.ObserveScrape("internal")
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("scraper failed")
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
