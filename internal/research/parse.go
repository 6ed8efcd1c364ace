package research

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/tsukumogami/leadgenius/internal/lead"
)

// IDFunc returns a fresh lead id on every call.
type IDFunc func() string

// NewLeadID returns a time-ordered id of the form "lead-<uuid>".
func NewLeadID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "lead-" + id.String()
}

// ParseLeads decodes a cleaned reply into leads. The reply must be a JSON
// array; each element becomes exactly one lead, with placeholders for any
// field that is missing, empty or not a scalar. A nil idgen uses NewLeadID.
//
// Errors are always *MalformedReplyError carrying text as Raw.
func ParseLeads(text string, idgen IDFunc) ([]lead.Lead, error) {
	if idgen == nil {
		idgen = NewLeadID
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &MalformedReplyError{Raw: text, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &MalformedReplyError{Raw: text, Err: errors.New("unexpected data after JSON value")}
	}

	items, ok := v.([]any)
	if !ok {
		return nil, &MalformedReplyError{Raw: text, Err: fmt.Errorf("expected a JSON array, got %s", jsonKind(v))}
	}

	leads := make([]lead.Lead, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		leads = append(leads, leadFromObject(idgen(), obj))
	}
	return leads, nil
}

// leadFromObject builds a lead from a decoded object. A nil obj yields a
// lead made entirely of placeholders.
func leadFromObject(id string, obj map[string]any) lead.Lead {
	return lead.Lead{
		ID:         id,
		Name:       textOr(obj["name"], lead.NotAvailable),
		Role:       textOr(obj["role"], lead.NotAvailable),
		Company:    textOr(obj["company"], lead.NotAvailable),
		Email:      textOr(obj["email"], lead.NotAvailable),
		Phone:      textOr(obj["phone"], lead.NotAvailable),
		Website:    textOr(obj["website"], lead.NoWebsite),
		Source:     textOr(obj["source"], lead.DefaultSource),
		Confidence: lead.ConfidenceFrom(obj["confidence"]),
	}
}

// textOr renders scalar JSON values as text. Empty strings, null, objects
// and arrays give fallback.
func textOr(v any, fallback string) string {
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return fallback
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}
