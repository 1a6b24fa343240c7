package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the outcome of decoding a model response: a typed value, or the
// reason the response was rejected
type Result[T any] struct {
	Value  T
	OK     bool
	Reason string
}

func success[T any](v T) Result[T] { return Result[T]{Value: v, OK: true} }

func failure[T any](format string, args ...interface{}) Result[T] {
	return Result[T]{Reason: fmt.Sprintf(format, args...)}
}

// Decode extracts the JSON document from raw model output, which may be wrapped in
// a markdown fence or surrounded by prose, unmarshals it into T and validates it
func Decode[T any](raw string, validate func(T) error) Result[T] {
	doc, ok := extractJSON(raw)
	if !ok {
		return failure[T]("no JSON document in response")
	}

	var v T
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return failure[T]("malformed JSON: %v", err)
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return failure[T]("invalid response: %v", err)
		}
	}
	return success(v)
}

// extractJSON returns the outermost JSON array or object in s
func extractJSON(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		s = strings.TrimSpace(rest)
	}

	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return "", false
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}
