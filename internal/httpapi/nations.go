package httpapi

import (
	"net/http"
)

type nationDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// handleListNations serves GET /api/nations?ruleset=classic. Only the
// default ruleset is loaded in this process (see ruleset.Default), so
// the query parameter is accepted but not yet used to select among
// multiple rulesets.
func (s *Server) handleListNations(w http.ResponseWriter, r *http.Request) {
	nations := s.Ruleset.Nations()
	out := make([]nationDTO, len(nations))
	for i, n := range nations {
		out[i] = nationDTO{ID: n.ID, Name: n.Name, Color: n.Color}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nations":  out,
		"metadata": map[string]any{"ruleset": r.URL.Query().Get("ruleset"), "count": len(out)},
	})
}

func (s *Server) handleGetNation(w http.ResponseWriter, r *http.Request) {
	n, err := s.Ruleset.Nation(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nationDTO{ID: n.ID, Name: n.Name, Color: n.Color})
}

// handleNationLeaders serves .../leaders. The classic ruleset fixture
// carries no leader roster (see ruleset.Default); a real ruleset loader
// would add one without this endpoint's shape changing.
func (s *Server) handleNationLeaders(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Ruleset.Nation(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, []string{})
}

func (s *Server) handleListRulesets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rulesets": []string{"classic"}})
}
