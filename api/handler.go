package api

import (
	"net/http"

	fancysearch "github.com/Twibooru/fancy-searchable"
)

type compileRequest struct {
	Query        string `json:"query"`
	DefaultField string `json:"default_field"`
}

func (s *server) compileHandler(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if s.returnOnError(w, r, s.readJson(w, r, &req)) {
		return
	}

	defaultField := req.DefaultField
	if defaultField == "" {
		defaultField = s.cfg.DefaultField
	}

	doc, err := fancysearch.Compile(req.Query, defaultField, s.meta.Load())
	if s.returnOnError(w, r, err) {
		return
	}

	s.writeJson(w, http.StatusOK, apiResponse{ //nolint:errcheck
		Success: true,
		Data:    doc,
	}, nil)
}
