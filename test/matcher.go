package test

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"

	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"
	"go.uber.org/mock/gomock"
)

type predicate[T any] struct {
	match func(T) bool
	last  interface{}
}

func (p *predicate[T]) Matches(x interface{}) bool {
	p.last = x
	v, ok := x.(T)
	return ok && p.match(v)
}

func (p *predicate[T]) String() string {
	return fmt.Sprintf("satisfies predicate on %T (last value %v)", *new(T), p.last)
}

// Match is a gomock matcher for arguments which can't be compared with gomock.Eq
func Match[T any](m func(v T) bool) gomock.Matcher {
	return &predicate[T]{match: m}
}

// HaveMessage matches a recorded response whose json body has the given "message"
func HaveMessage(message string) types.GomegaMatcher {
	return WithTransform(func(rec *httptest.ResponseRecorder) (string, error) {
		body := struct {
			Message string `json:"message"`
		}{}
		err := json.Unmarshal(rec.Body.Bytes(), &body)
		return body.Message, err
	}, Equal(message))
}
