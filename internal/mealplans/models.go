package mealplans

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// GenerateRequest is the body of POST /generate-meal-plan.
type GenerateRequest struct {
	UserID flexibleID `json:"user_id"`
}

var errBadUserID = errors.New("user_id must be a string or number")

// flexibleID accepts user_id as a JSON string or number. null, "" and 0 decode as empty.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errBadUserID
	}
	if v, err := strconv.ParseFloat(n.String(), 64); err == nil && v == 0 {
		*f = ""
		return nil
	}
	*f = flexibleID(n.String())
	return nil
}

// ListPlansResponse is returned by GET /v1/meal-plans.
type ListPlansResponse struct {
	Plans []StoredPlan `json:"plans"`
}

type flatError struct {
	Error string `json:"error"`
}

// salvageError is the 502 body for answers that could not be turned into a plan.
type salvageError struct {
	Error string     `json:"error"`
	Kind  ResultKind `json:"kind"`
	Raw   string     `json:"raw"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
