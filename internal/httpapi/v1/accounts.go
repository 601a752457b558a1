package v1

import (
	"encoding/json"
	"net/http"

	"github.com/leasebook/leasebook/internal/journal"
)

func (s *Server) getAccounts(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, s.postings.Chart())
}

// replaceAccounts swaps the chart of accounts wholesale. Entry generation
// after this call resolves against the new mapping; nothing already
// generated changes.
func (s *Server) replaceAccounts(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var chart journal.Chart
	if err := json.NewDecoder(r.Body).Decode(&chart); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if err := s.postings.ReplaceChart(chart); err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, s.postings.Chart())
}
