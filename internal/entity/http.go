package entity

import (
	"errors"
	"net/http"
)

// ErrBodyUnreadable marks a response whose status and headers arrived but
// whose body could not be read or decoded.
var ErrBodyUnreadable = errors.New("response body unreadable")

type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}
