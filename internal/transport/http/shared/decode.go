package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"hrms/internal/transport/http/api"
)

// DecodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Decode is DecodeJSON plus the 400 response on malformed input. It reports
// whether the handler may continue.
func Decode(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	if err := DecodeJSON(r, dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
			return false
		}
		api.Fail(w, http.StatusBadRequest, "validation_error", "invalid request body", requestID)
		return false
	}
	return true
}

// FlexFloat accepts a JSON number or a numeric string, as sent by form
// based clients. Empty strings and null decode to zero. NaN and the
// infinities are rejected.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	raw, err := flexText(data)
	if err != nil || raw == "" {
		*f = 0
		return err
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return fmt.Errorf("%q is not a number", raw)
	}
	*f = FlexFloat(n)
	return nil
}

// FlexInt is FlexFloat for integers.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	raw, err := flexText(data)
	if err != nil || raw == "" {
		*i = 0
		return err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%q is not an integer", raw)
	}
	*i = FlexInt(n)
	return nil
}

func flexText(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return string(data), nil
}
