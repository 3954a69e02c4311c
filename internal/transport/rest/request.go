package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// maxBodyBytes caps request bodies. Report ingestion is the largest payload.
const maxBodyBytes = 4 << 20

// decodeJSON reads a single JSON object from the request body. Unknown
// fields and trailing data are rejected. An empty body is an error unless
// allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid request body: unexpected trailing data")
	}
	return nil
}

// pathID parses the {id} path segment. A malformed id is reported as a
// validation error on field.
func pathID(r *http.Request, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(field, "must be a UUID")
	}
	return id, nil
}

// queryParser reads typed query parameters and collects field errors.
type queryParser struct {
	values url.Values
	errs   []domain.FieldError
}

func newQueryParser(r *http.Request) *queryParser {
	return &queryParser{values: r.URL.Query()}
}

func (p *queryParser) str(key string) *string {
	v := strings.TrimSpace(p.values.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func (p *queryParser) upper(key string) *string {
	v := p.str(key)
	if v == nil {
		return nil
	}
	u := strings.ToUpper(*v)
	return &u
}

// list splits comma-separated and repeated values of key.
func (p *queryParser) list(key string) []string {
	var out []string
	for _, raw := range p.values[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, strings.ToUpper(part))
			}
		}
	}
	return out
}

func (p *queryParser) integer(key string) int {
	v := p.str(key)
	if v == nil {
		return 0
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		p.errs = append(p.errs, domain.FieldError{Field: key, Message: "must be an integer"})
		return 0
	}
	return n
}

func (p *queryParser) id(key string) *uuid.UUID {
	v := p.str(key)
	if v == nil {
		return nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		p.errs = append(p.errs, domain.FieldError{Field: key, Message: "must be a UUID"})
		return nil
	}
	return &id
}

func (p *queryParser) err() error {
	if len(p.errs) > 0 {
		return domain.NewValidationErrors(p.errs)
	}
	return nil
}
