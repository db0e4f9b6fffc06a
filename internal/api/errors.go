package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/ecfrdash/ecfr-dashboard/internal/api/respond"
	"github.com/ecfrdash/ecfr-dashboard/internal/model"
)

// writeServiceError maps domain errors to the JSON error envelope. upstreamMsg
// is the message used when the upstream API failed.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, upstreamMsg string) {
	log := hlog.FromRequest(r)

	var (
		ve model.ValidationError
		me model.MissingUploadError
		re model.RemoteFetchError
		ce model.CorruptFileError
	)
	switch {
	case errors.As(err, &ve):
		respond.WriteBadRequest(w, ve.Message)
	case errors.As(err, &me):
		respond.WriteBadRequest(w, "No "+me.Field+" file uploaded")
	case errors.As(err, &re):
		log.Warn().Err(err).Str("endpoint", re.Endpoint).Int("upstream_status", re.StatusCode).Msg("upstream fetch failed")
		respond.WriteBadGateway(w, upstreamMsg)
	case errors.As(err, &ce):
		log.Error().Err(err).Str("path", ce.Path).Msg("corrupt local file")
		respond.WriteInternalError(w, "Invalid JSON in local file")
	default:
		log.Error().Stack().Err(err).Msg("request failed")
		respond.WriteInternalError(w, "internal server error")
	}
}
