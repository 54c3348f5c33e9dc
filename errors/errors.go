package errors

import (
	"errors"
	"net/http"
)

var (
	BadRequest = HttpError{http.StatusBadRequest, errors.New("bad request")}
	NotFound   = HttpError{http.StatusNotFound, errors.New("not found")}
	Duplicate  = HttpError{http.StatusConflict, errors.New("duplicate")}
	BadGateway = HttpError{http.StatusBadGateway, errors.New("upstream failure")}
)

type HttpError struct {
	Code int
	Err  error
}

func (h HttpError) Unwrap() error {
	return h.Err
}

func (h HttpError) Error() string {
	return h.Err.Error()
}
