// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package structured recovers structured values from free-form model
// output: JSON objects and arrays, optionally wrapped in code fences or
// surrounded by prose, and bulleted or numbered lists.
package structured

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParseFailure reports model output that did not contain the expected
// structure. Callers substitute their stage default.
type ParseFailure struct {
	Reason string
	Raw    string
}

func (e *ParseFailure) Error() string {
	return "parse failure: " + e.Reason
}

// StripCodeFence removes a surrounding ``` or ```json fence and trims
// whitespace. Text without a leading fence is returned trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSON decodes the first JSON object in raw into out. Every key in
// required must be present in the object. Text after the object is ignored.
func ExtractJSON(raw string, out any, required ...string) error {
	body, err := locate(raw, '{')
	if err != nil {
		return &ParseFailure{Reason: "no JSON object found: " + err.Error(), Raw: raw}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return &ParseFailure{Reason: fmt.Sprintf("invalid JSON object: %v", err), Raw: raw}
	}
	for _, k := range required {
		if _, ok := fields[k]; !ok {
			return &ParseFailure{Reason: fmt.Sprintf("missing key %q", k), Raw: raw}
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ParseFailure{Reason: fmt.Sprintf("unexpected JSON shape: %v", err), Raw: raw}
	}
	return nil
}

// ExtractJSONArray decodes the first JSON array in raw into out.
func ExtractJSONArray(raw string, out any) error {
	body, err := locate(raw, '[')
	if err != nil {
		return &ParseFailure{Reason: "no JSON array found: " + err.Error(), Raw: raw}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ParseFailure{Reason: fmt.Sprintf("invalid JSON array: %v", err), Raw: raw}
	}
	return nil
}

// locate returns the first complete JSON value starting at an open
// delimiter in the fence-stripped text. Delimiters that do not begin a
// valid value, such as braces in prose, are skipped.
func locate(raw string, open byte) (json.RawMessage, error) {
	s := StripCodeFence(raw)
	err := errors.New("no opening delimiter")
	for start := strings.IndexByte(s, open); start >= 0; {
		var v json.RawMessage
		dec := json.NewDecoder(strings.NewReader(s[start:]))
		if err = dec.Decode(&v); err == nil {
			return v, nil
		}
		next := strings.IndexByte(s[start+1:], open)
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, err
}
