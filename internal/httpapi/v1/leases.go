package v1

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) postLease(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var req postLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	created, err := s.contracts.Create(r.Context(), req.toContract())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toLeaseResponse(created))
}

func (s *Server) listLeases(w http.ResponseWriter, r *http.Request) {
	leases, err := s.contracts.List(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]leaseResponse, 0, len(leases))
	for _, c := range leases {
		out = append(out, toLeaseResponse(c))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getLease(w http.ResponseWriter, r *http.Request) {
	id, ok := s.leaseID(w, r)
	if !ok {
		return
	}
	c, err := s.contracts.Get(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toLeaseResponse(c))
}

func (s *Server) updateLeaseStatus(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	id, ok := s.leaseID(w, r)
	if !ok {
		return
	}
	var req patchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	c, err := s.contracts.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toLeaseResponse(c))
}

func (s *Server) postModification(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	id, ok := s.leaseID(w, r)
	if !ok {
		return
	}
	var req postModificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	c, err := s.contracts.AddModification(r.Context(), id, req.toModification())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toLeaseResponse(c))
}

// leaseID parses the {id} route param, writing a 400 on malformed input.
func (s *Server) leaseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid lease id")
		return uuid.Nil, false
	}
	return id, true
}
