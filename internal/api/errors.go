package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed API call.
type Kind int

const (
	// KindTransport means no response was received.
	KindTransport Kind = iota
	// KindServer means the backend answered with a non-2xx status.
	KindServer
	// KindDecode means the response body could not be decoded.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const (
	MsgSessionExpired = "인증 정보가 만료되었거나 유효하지 않습니다. 다시 로그인해주세요."
	MsgGeneric        = "데이터 로드 중 오류가 발생했습니다."
	MsgRegister       = "회원가입 중 오류가 발생했습니다."
	MsgLogin          = "로그인 중 오류가 발생했습니다."
	MsgSavedItems     = "찜 목록을 불러오는데 실패했습니다."
	MsgUsers          = "회원 목록 로딩 실패"
	MsgBatch          = "배치 실행에 실패했습니다."
)

// ErrSessionExpired is matched by errors.Is for 401/403 answers on endpoints
// that require a session.
var ErrSessionExpired = errors.New("api: session expired")

// Error is returned by every Client operation. Message is always safe to show
// to the user as-is.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the backend rejected the credentials.
func (e *Error) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Message extracts the user-facing message from err, falling back to
// fallback when err did not come from the client.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
