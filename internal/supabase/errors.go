package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"pawtrades/internal/backend"

	"github.com/supabase-community/gotrue-go/types"
)

// postgrest-go reports failures as "(code) message".
var restErrPattern = regexp.MustCompile(`^\(([^)]*)\) (.*)$`)

// gotrue-go reports failures as "response status code N: body".
var authErrPattern = regexp.MustCompile(`(?s)^response status code (\d+)(?:: (.*))?$`)

var unauthorizedCodes = map[string]bool{
	"42501":    true, // insufficient_privilege, including row-level security
	"PGRST301": true,
	"PGRST302": true,
}

func restError(op string, err error) error {
	if err == nil {
		return nil
	}
	m := restErrPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return &backend.Error{Op: op, Message: err.Error(), Err: fmt.Errorf("%w: %w", backend.ErrUnavailable, err)}
	}

	code, msg := m[1], m[2]
	kind := backend.ErrUnavailable
	switch {
	case unauthorizedCodes[code]:
		kind = backend.ErrUnauthorized
	case code == "PGRST116":
		kind = backend.ErrNotFound
	}
	if msg == "" {
		msg = err.Error()
	}
	return &backend.Error{Op: op, Message: msg, Err: fmt.Errorf("%w: %w", kind, err)}
}

type authErrorBody struct {
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
	Error            string `json:"error"`
}

func authError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, types.ErrInvalidTokenRequest) {
		return &backend.Error{Op: op, Message: "email and password are required", Err: fmt.Errorf("%w: %w", backend.ErrUnauthorized, err)}
	}

	m := authErrPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return &backend.Error{Op: op, Message: err.Error(), Err: fmt.Errorf("%w: %w", backend.ErrUnavailable, err)}
	}

	status, _ := strconv.Atoi(m[1])
	kind := backend.ErrUnavailable
	if status >= 400 && status < 500 && status != 429 {
		kind = backend.ErrUnauthorized
	}
	return &backend.Error{Op: op, Message: authMessage(m[2], err), Err: fmt.Errorf("%w: %w", kind, err)}
}

func authMessage(body string, err error) string {
	body = strings.TrimSpace(body)
	var parsed authErrorBody
	if body != "" && json.Unmarshal([]byte(body), &parsed) == nil {
		for _, s := range []string{parsed.Msg, parsed.ErrorDescription, parsed.Message, parsed.Error} {
			if s != "" {
				return s
			}
		}
	}
	if body != "" {
		return body
	}
	return err.Error()
}

func canceled(op string, err error) error {
	return &backend.Error{Op: op, Message: err.Error(), Err: fmt.Errorf("%w: %w", backend.ErrUnavailable, err)}
}
