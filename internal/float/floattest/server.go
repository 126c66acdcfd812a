// Package floattest provides an in-memory Float logged-time API for tests.
package floattest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"

	"github.com/gorilla/mux"
)

// Record is a stored logged-time record. Hours is a pointer so tests can seed
// records that omit the field.
type Record struct {
	ID        string   `json:"logged_time_id"`
	Hours     *float64 `json:"hours,omitempty"`
	Date      string   `json:"date"`
	Billable  int      `json:"billable,omitempty"`
	PeopleID  string   `json:"people_id,omitempty"`
	ProjectID string   `json:"project_id,omitempty"`
}

// Call is one request received by the server.
type Call struct {
	Method string
	Path   string
	Query  map[string]string
	Body   map[string]any
}

// Server is a fake Float API backed by httptest.
type Server struct {
	*httptest.Server

	Token string

	mu      sync.Mutex
	records map[string]Record
	nextID  int
	calls   []Call
	failOn  map[string]int // date or id -> status
}

// NewServer starts a server that requires "Bearer <token>".
func NewServer(token string) *Server {
	s := &Server{
		Token:   token,
		records: map[string]Record{},
		failOn:  map[string]int{},
	}
	r := mux.NewRouter()
	r.Use(s.auth)
	r.HandleFunc("/v3/logged-time", s.list).Methods(http.MethodGet)
	r.HandleFunc("/v3/logged-time", s.create).Methods(http.MethodPost)
	r.HandleFunc("/v3/logged-time/{id}", s.delete).Methods(http.MethodDelete)
	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL is the API root to configure the client with.
func (s *Server) BaseURL() string {
	return s.URL + "/v3"
}

// Seed stores a record with the given hours.
func (s *Server) Seed(id, date string, hours float64) {
	h := hours
	s.SeedRaw(Record{ID: id, Date: date, Hours: &h})
}

// SeedRaw stores a record as-is.
func (s *Server) SeedRaw(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
}

// FailOn makes create calls for a date, or delete calls for an id, answer status.
func (s *Server) FailOn(key string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[key] = status
}

// Records returns stored records sorted by date, then id.
func (s *Server) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Calls returns every request received, in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Mutations returns the POST and DELETE calls received.
func (s *Server) Mutations() []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method != http.MethodGet {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls forgets recorded calls but keeps the records.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.Token {
			http.Error(w, `{"message":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) record(c Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := map[string]string{}
	for k := range r.URL.Query() {
		q[k] = r.URL.Query().Get(k)
	}
	s.record(Call{Method: r.Method, Path: r.URL.Path, Query: q})

	from, to := q["start_date"], q["end_date"]
	var out []Record
	for _, rec := range s.Records() {
		if rec.Date < from || rec.Date > to {
			continue
		}
		if rec.PeopleID != "" && rec.PeopleID != q["people_id"] {
			continue
		}
		if rec.ProjectID != "" && rec.ProjectID != q["project_id"] {
			continue
		}
		out = append(out, rec)
	}
	if out == nil {
		out = []Record{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.record(Call{Method: r.Method, Path: r.URL.Path, Body: body})

	date, _ := body["date"].(string)
	s.mu.Lock()
	status, fail := s.failOn[date]
	s.mu.Unlock()
	if fail {
		http.Error(w, `{"message":"rejected"}`, status)
		return
	}

	hours, _ := body["hours"].(float64)
	billable, _ := body["billable"].(float64)
	people, _ := body["people_id"].(string)
	project, _ := body["project_id"].(string)

	s.mu.Lock()
	s.nextID++
	rec := Record{
		ID:        fmt.Sprintf("lt-%d", s.nextID),
		Date:      date,
		Hours:     &hours,
		Billable:  int(billable),
		PeopleID:  people,
		ProjectID: project,
	}
	s.records[rec.ID] = rec
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.record(Call{Method: r.Method, Path: r.URL.Path})

	s.mu.Lock()
	defer s.mu.Unlock()
	if status, fail := s.failOn[id]; fail {
		http.Error(w, `{"message":"rejected"}`, status)
		return
	}
	if _, ok := s.records[id]; !ok {
		http.Error(w, `{"message":"Not found"}`, http.StatusNotFound)
		return
	}
	delete(s.records, id)
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
