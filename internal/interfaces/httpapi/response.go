package httpapi

import (
	"errors"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "hoops-feed"

	internalMessage = "internal server error"
)

// envelope follows the Google JSON style guide: data or error, never both.
type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Meta       *viewMeta  `json:"meta,omitempty"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

// viewMeta tells a client which cycle produced the data and how old it is.
type viewMeta struct {
	CycleID    string    `json:"cycle_id"`
	Feed       string    `json:"feed"`
	UpdatedAt  time.Time `json:"updated_at"`
	AgeSeconds int64     `json:"age_seconds"`
	Degraded   bool      `json:"degraded"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorClass struct {
	target     error
	httpStatus int
	reason     string
	status     string
}

var errorClasses = []errorClass{
	{target: usecase.ErrInvalidInput, httpStatus: http.StatusBadRequest, reason: "invalidInput", status: "INVALID_ARGUMENT"},
	{target: usecase.ErrNotFound, httpStatus: http.StatusNotFound, reason: "notFound", status: "NOT_FOUND"},
	{target: usecase.ErrFeedBusy, httpStatus: http.StatusConflict, reason: "feedBusy", status: "ABORTED"},
	{target: usecase.ErrDependencyUnavailable, httpStatus: http.StatusServiceUnavailable, reason: "dependencyUnavailable", status: "UNAVAILABLE"},
}

var internalClass = errorClass{httpStatus: http.StatusInternalServerError, reason: "internalError", status: "INTERNAL"}

func classify(err error) errorClass {
	for _, c := range errorClasses {
		if errors.Is(err, c.target) {
			return c
		}
	}
	return internalClass
}

func writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: apiVersion, Data: data})
}

// writeView sends a feature view with the meta of the cycle that produced it.
func writeView(w http.ResponseWriter, now time.Time, origin usecase.Provenance, degraded bool, data any) {
	writeJSON(w, http.StatusOK, envelope{
		APIVersion: apiVersion,
		Meta: &viewMeta{
			CycleID:    origin.CycleID,
			Feed:       origin.Feed,
			UpdatedAt:  origin.UpdatedAt,
			AgeSeconds: int64(origin.Age(now) / time.Second),
			Degraded:   degraded,
		},
		Data: data,
	})
}

// writeError maps err to its HTTP status. Unclassified errors are reported as
// a bare internal error; their text stays in the logs.
func writeError(w http.ResponseWriter, err error) {
	class := classify(err)
	message := internalMessage
	if class.httpStatus != http.StatusInternalServerError {
		message = err.Error()
	}
	writeJSON(w, class.httpStatus, envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    class.httpStatus,
			Message: message,
			Status:  class.status,
			Errors:  []errorItem{{Domain: errorDomain, Reason: class.reason, Message: message}},
		},
	})
}
