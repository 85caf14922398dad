package mockapi

import (
	"encoding/base64"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/setianjay/api-contract-tests/jsoncodec"
	"github.com/setianjay/api-contract-tests/servicedef"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "password123"

	correlationHeader = "X-Correlation-ID"
)

// Server is an in-memory stand-in for the booking API and the object catalog API. It
// keeps all state in memory and is safe for concurrent use.
type Server struct {
	router   *mux.Router
	codec    *jsoncodec.Codec
	logger   *zap.Logger
	username string
	password string

	lock          sync.Mutex
	tokens        map[string]struct{}
	bookings      map[int]servicedef.Booking
	nextBookingID int
	objects       []servicedef.CatalogObject
}

type Option func(*Server)

// WithCredentials replaces the username and password accepted by POST /auth.
func WithCredentials(username, password string) Option {
	return func(s *Server) {
		s.username = username
		s.password = password
	}
}

func New(logger *zap.Logger, options ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		codec:    jsoncodec.New(logger),
		logger:   logger,
		username: DefaultUsername,
		password: DefaultPassword,
		tokens:   make(map[string]struct{}),
	}
	for _, o := range options {
		o(s)
	}
	s.Reset()

	router := mux.NewRouter()
	router.Use(s.correlationMiddleware)
	router.HandleFunc("/ping", s.ping).Methods("GET")
	router.HandleFunc("/auth", s.createToken).Methods("POST")
	router.HandleFunc("/booking", s.listBookings).Methods("GET")
	router.HandleFunc("/booking", s.createBooking).Methods("POST")
	router.HandleFunc("/booking/{id:[0-9]+}", s.getBooking).Methods("GET")
	router.HandleFunc("/booking/{id:[0-9]+}", s.updateBooking).Methods("PUT")
	router.HandleFunc("/booking/{id:[0-9]+}", s.partialUpdateBooking).Methods("PATCH")
	router.HandleFunc("/booking/{id:[0-9]+}", s.deleteBooking).Methods("DELETE")
	router.HandleFunc("/objects", s.listObjects).Methods("GET")
	router.HandleFunc("/objects", s.createObject).Methods("POST")
	router.HandleFunc("/objects/{id}", s.getObject).Methods("GET")
	router.HandleFunc("/objects/{id}", s.updateObject).Methods("PUT")
	router.HandleFunc("/objects/{id}", s.deleteObject).Methods("DELETE")
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusNotFound, "Not Found")
	})
	s.router = router
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Reset discards every issued token and booking and restores the seed data.
func (s *Server) Reset() {
	objects, err := jsoncodec.DecodeList[servicedef.CatalogObject](s.codec, seedObjects)
	if err != nil {
		panic(err)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.tokens = make(map[string]struct{})
	s.objects = objects
	s.bookings = make(map[int]servicedef.Booking)
	s.nextBookingID = 1
	for _, b := range seedBookings() {
		s.bookings[s.nextBookingID] = b
		s.nextBookingID++
	}
}

func (s *Server) correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		corrID := r.Header.Get(correlationHeader)
		if corrID == "" {
			corrID = uuid.New().String()
		}
		w.Header().Set(correlationHeader, corrID)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("mock request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("correlation_id", corrID),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusCreated, "Created")
}

func (s *Server) createToken(w http.ResponseWriter, r *http.Request) {
	var creds servicedef.Credentials
	if err := s.readBody(r, &creds); err != nil || creds.Username != s.username || creds.Password != s.password {
		s.writeJSON(w, http.StatusOK, servicedef.AuthResponse{Reason: "Bad credentials"})
		return
	}
	token := strings.ReplaceAll(uuid.New().String(), "-", "")[:15]
	s.lock.Lock()
	s.tokens[token] = struct{}{}
	s.lock.Unlock()
	s.writeJSON(w, http.StatusOK, servicedef.AuthResponse{Token: token})
}

// authorized accepts either a cookie token issued by /auth or basic credentials.
func (s *Server) authorized(r *http.Request) bool {
	if c, err := r.Cookie("token"); err == nil {
		s.lock.Lock()
		_, ok := s.tokens[c.Value]
		s.lock.Unlock()
		if ok {
			return true
		}
	}
	basic := "Basic " + base64.StdEncoding.EncodeToString([]byte(s.username+":"+s.password))
	return r.Header.Get("Authorization") == basic
}

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.lock.Lock()
	ids := make([]servicedef.BookingID, 0, len(s.bookings))
	for id, b := range s.bookings {
		if matchesFilter(b, q.Get("firstname"), q.Get("lastname"), q.Get("checkin"), q.Get("checkout")) {
			ids = append(ids, servicedef.BookingID{BookingID: id})
		}
	}
	s.lock.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i].BookingID < ids[j].BookingID })
	s.writeJSON(w, http.StatusOK, ids)
}

func matchesFilter(b servicedef.Booking, firstname, lastname, checkin, checkout string) bool {
	if firstname != "" && (b.Firstname == nil || *b.Firstname != firstname) {
		return false
	}
	if lastname != "" && (b.Lastname == nil || *b.Lastname != lastname) {
		return false
	}
	if checkin != "" && (b.BookingDates == nil || b.BookingDates.Checkin < checkin) {
		return false
	}
	if checkout != "" && (b.BookingDates == nil || b.BookingDates.Checkout > checkout) {
		return false
	}
	return true
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	var b servicedef.Booking
	if err := s.readBody(r, &b); err != nil || !complete(b) {
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	s.lock.Lock()
	id := s.nextBookingID
	s.nextBookingID++
	s.bookings[id] = b
	s.lock.Unlock()
	s.writeJSON(w, http.StatusOK, servicedef.BookingCreated{BookingID: id, Booking: &b})
}

func complete(b servicedef.Booking) bool {
	return b.Firstname != nil && b.Lastname != nil && b.TotalPrice != nil &&
		b.DepositPaid != nil && b.BookingDates != nil
}

func bookingID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func (s *Server) getBooking(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	b, ok := s.bookings[bookingID(r)]
	s.lock.Unlock()
	if !ok {
		writeText(w, http.StatusNotFound, "Not Found")
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) updateBooking(w http.ResponseWriter, r *http.Request) {
	s.modifyBooking(w, r, func(_ servicedef.Booking, update servicedef.Booking) (servicedef.Booking, bool) {
		return update, complete(update)
	})
}

func (s *Server) partialUpdateBooking(w http.ResponseWriter, r *http.Request) {
	s.modifyBooking(w, r, func(existing servicedef.Booking, update servicedef.Booking) (servicedef.Booking, bool) {
		if update.Firstname != nil {
			existing.Firstname = update.Firstname
		}
		if update.Lastname != nil {
			existing.Lastname = update.Lastname
		}
		if update.TotalPrice != nil {
			existing.TotalPrice = update.TotalPrice
		}
		if update.DepositPaid != nil {
			existing.DepositPaid = update.DepositPaid
		}
		if update.BookingDates != nil {
			existing.BookingDates = update.BookingDates
		}
		if update.AdditionalNeeds != nil {
			existing.AdditionalNeeds = update.AdditionalNeeds
		}
		return existing, true
	})
}

func (s *Server) modifyBooking(
	w http.ResponseWriter,
	r *http.Request,
	apply func(existing, update servicedef.Booking) (servicedef.Booking, bool),
) {
	if !s.authorized(r) {
		writeText(w, http.StatusForbidden, "Forbidden")
		return
	}
	var update servicedef.Booking
	if err := s.readBody(r, &update); err != nil {
		writeText(w, http.StatusBadRequest, "Bad Request")
		return
	}
	id := bookingID(r)
	s.lock.Lock()
	existing, ok := s.bookings[id]
	if !ok {
		s.lock.Unlock()
		writeText(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	result, valid := apply(existing, update)
	if valid {
		s.bookings[id] = result
	}
	s.lock.Unlock()
	if !valid {
		writeText(w, http.StatusBadRequest, "Bad Request")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) deleteBooking(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeText(w, http.StatusForbidden, "Forbidden")
		return
	}
	id := bookingID(r)
	s.lock.Lock()
	_, ok := s.bookings[id]
	delete(s.bookings, id)
	s.lock.Unlock()
	if !ok {
		writeText(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	writeText(w, http.StatusCreated, "Created")
}

func (s *Server) listObjects(w http.ResponseWriter, r *http.Request) {
	wanted := r.URL.Query()["id"]
	s.lock.Lock()
	out := make([]servicedef.CatalogObject, 0, len(s.objects))
	for _, o := range s.objects {
		if len(wanted) == 0 || containsString(wanted, o.ID) {
			out = append(out, o)
		}
	}
	s.lock.Unlock()
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) findObject(id string) (int, bool) {
	for i, o := range s.objects {
		if o.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Server) getObject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.lock.Lock()
	i, ok := s.findObject(id)
	var o servicedef.CatalogObject
	if ok {
		o = s.objects[i]
	}
	s.lock.Unlock()
	if !ok {
		s.writeJSON(w, http.StatusNotFound, servicedef.ErrorResponse{Error: "Object with id=" + id + " was not found."})
		return
	}
	s.writeJSON(w, http.StatusOK, o)
}

func (s *Server) createObject(w http.ResponseWriter, r *http.Request) {
	var o servicedef.CatalogObject
	if err := s.readBody(r, &o); err != nil || strings.TrimSpace(o.Name) == "" {
		s.writeJSON(w, http.StatusBadRequest, servicedef.ErrorResponse{Error: "400 Bad Request. The request body is invalid."})
		return
	}
	o.ID = uuid.New().String()
	o.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	s.lock.Lock()
	s.objects = append(s.objects, o)
	s.lock.Unlock()
	s.writeJSON(w, http.StatusOK, o)
}

func (s *Server) updateObject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var update servicedef.CatalogObject
	if err := s.readBody(r, &update); err != nil || strings.TrimSpace(update.Name) == "" {
		s.writeJSON(w, http.StatusBadRequest, servicedef.ErrorResponse{Error: "400 Bad Request. The request body is invalid."})
		return
	}
	s.lock.Lock()
	i, ok := s.findObject(id)
	if ok {
		update.ID = id
		update.CreatedAt = s.objects[i].CreatedAt
		update.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		s.objects[i] = update
	}
	s.lock.Unlock()
	if !ok {
		s.writeJSON(w, http.StatusNotFound, servicedef.ErrorResponse{Error: "Object with id=" + id + " was not found."})
		return
	}
	s.writeJSON(w, http.StatusOK, update)
}

func (s *Server) deleteObject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.lock.Lock()
	i, ok := s.findObject(id)
	if ok {
		s.objects = append(s.objects[:i], s.objects[i+1:]...)
	}
	s.lock.Unlock()
	if !ok {
		s.writeJSON(w, http.StatusNotFound, servicedef.ErrorResponse{Error: "Object with id=" + id + " was not found."})
		return
	}
	s.writeJSON(w, http.StatusOK, servicedef.DeleteResponse{Message: "Object with id = " + id + " has been deleted."})
}

func (s *Server) readBody(r *http.Request, target interface{}) error {
	var body strings.Builder
	if _, err := io.Copy(&body, r.Body); err != nil {
		return err
	}
	return s.codec.DecodeInto(body.String(), target)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := s.codec.Encode(v)
	if err != nil {
		s.logger.Error("failed to encode mock response", zap.Error(err))
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(data))
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
