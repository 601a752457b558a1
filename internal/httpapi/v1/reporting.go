package v1

import (
	"net/http"
	"strconv"
)

func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := s.leaseID(w, r)
	if !ok {
		return
	}
	c, err := s.contracts.Get(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	sched := s.postings.Schedule(c)
	toJSON(w, http.StatusOK, scheduleResponse{
		LeaseID:   c.ID,
		Currency:  c.Currency,
		Truncated: sched.Truncated,
		Rows:      sched.Rows,
	})
}

// getEntries returns the journal entries for a lease, either for the whole
// schedule or for a single period when ?period=N is given.
func (s *Server) getEntries(w http.ResponseWriter, r *http.Request) {
	id, ok := s.leaseID(w, r)
	if !ok {
		return
	}
	c, err := s.contracts.Get(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	entries := []entryResponse{}
	if p := r.URL.Query().Get("period"); p != "" {
		period, err := strconv.Atoi(p)
		if err != nil {
			badRequest(w, "period must be an integer")
			return
		}
		got, err := s.postings.EntriesAt(c, period)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		for _, e := range got {
			entries = append(entries, toEntryResponse(e))
		}
	} else {
		for _, e := range s.postings.AllEntries(c) {
			entries = append(entries, toEntryResponse(e))
		}
	}
	toJSON(w, http.StatusOK, entriesResponse{LeaseID: c.ID, Items: entries})
}

func (s *Server) getPresentValue(w http.ResponseWriter, r *http.Request) {
	id, ok := s.leaseID(w, r)
	if !ok {
		return
	}
	c, err := s.contracts.Get(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, pvResponse{
		LeaseID:      c.ID,
		PresentValue: s.postings.PresentValue(c),
		Currency:     c.Currency,
	})
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	leases, err := s.contracts.List(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	base := r.URL.Query().Get("currency")
	toJSON(w, http.StatusOK, s.postings.PortfolioSummary(leases, base))
}

func (s *Server) getRates(w http.ResponseWriter, r *http.Request) {
	rates := s.postings.Rates()
	toJSON(w, http.StatusOK, ratesResponse{Base: rates.Base(), Rates: rates.Rates()})
}
