package toolkit

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/edutools/edutools/internal/schema"
)

type Enrollment struct {
	CourseID int      `json:"courseId" validate:"required,gt=0"`
	Email    string   `json:"email" validate:"required,email"`
	Tags     []string `json:"tags,omitempty"`
}

type calculator struct {
	prefix string
}

func (c *calculator) ToolOperations() []schema.OperationSpec {
	return []schema.OperationSpec{
		{Method: "Add", Description: "Add two integers", Params: []schema.ParamSpec{
			schema.Param("a", "first operand"),
			schema.Param("b", "second operand"),
		}},
		{Method: "Divide", Params: []schema.ParamSpec{
			schema.Param("a", "dividend"),
			schema.Param("b", "divisor"),
		}},
		{Method: "Greet", Description: "Say hello", Params: []schema.ParamSpec{
			schema.Param("name", "who to greet"),
			schema.Param("greeting", "optional greeting"),
			schema.OptionalParam("times", "repetitions", 1),
		}},
		{Method: "Fail", Description: "Always fails"},
		{Method: "Explode", Description: "Panics"},
		{Method: "Later", Params: []schema.ParamSpec{schema.Param("n", "value to return")}},
		{Method: "Closed"},
		{Method: "Stream", Params: []schema.ParamSpec{schema.Param("s", "value to send")}},
		{Method: "Nothing"},
		{Method: "Reset"},
		{Method: "Enroll", Params: []schema.ParamSpec{schema.Param("enrollment", "enrollment request")}},
		{Method: "Flag", Params: []schema.ParamSpec{schema.Param("on", "flag")}},
		{Method: "Cancelled"},
		{Method: "Count", Params: []schema.ParamSpec{schema.Param("tags", "tags to count")}},
		{Method: "When"},
		{Method: "Grade", Params: []schema.ParamSpec{schema.Param("score", "percentage")}},
	}
}

func (c *calculator) Add(a, b int) int { return a + b }

func (c *calculator) Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, errors.New("division by zero")
	}
	return a / b, nil
}

func (c *calculator) Greet(ctx context.Context, name string, greeting *string, times int) string {
	g := "hello"
	if greeting != nil {
		g = *greeting
	}
	return strings.Repeat(fmt.Sprintf("%s%s %s;", c.prefix, g, name), times)
}

func (c *calculator) Fail(ctx context.Context) (string, error) {
	return "", errors.New("database unavailable")
}

func (c *calculator) Explode() string {
	var m map[string]int
	m["x"] = 1
	return "unreachable"
}

func (c *calculator) Later(n int) *Pending[int] {
	return Go(func() (int, error) { return n * 2, nil })
}

func (c *calculator) Closed() <-chan string {
	ch := make(chan string)
	close(ch)
	return ch
}

func (c *calculator) Stream(s string) <-chan string {
	ch := make(chan string, 1)
	ch <- s
	return ch
}

func (c *calculator) Nothing() (*Enrollment, error) { return nil, nil }

func (c *calculator) Reset() error { return nil }

func (c *calculator) Enroll(e Enrollment) (Enrollment, error) { return e, nil }

func (c *calculator) Flag(on bool) bool { return on }

func (c *calculator) Cancelled(ctx context.Context) bool { return ctx.Done() == nil }

func (c *calculator) Count(tags []string) int { return len(tags) }

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func (c *calculator) When() time.Time { return fixedTime }

type letter int

func (l letter) String() string { return string(rune('A' + int(l))) }

func (c *calculator) Grade(score int) letter {
	if score >= 90 {
		return 0
	}
	return 1
}

// shadow registers an Add that must lose to calculator's.
type shadow struct{}

func (*shadow) ToolOperations() []schema.OperationSpec {
	return []schema.OperationSpec{
		{Method: "Add", Params: []schema.ParamSpec{schema.Param("a", ""), schema.Param("b", "")}},
		{Method: "Sub", Params: []schema.ParamSpec{schema.Param("a", ""), schema.Param("b", "")}},
	}
}

func (*shadow) Add(a, b int) int { return -1 }

func (*shadow) Sub(a, b int) int { return a - b }

// broken panics while listing its operations.
type broken struct {
	ops []schema.OperationSpec
}

func (b *broken) ToolOperations() []schema.OperationSpec { return b.ops[:1] }

// mismatched declares metadata that does not fit its methods.
type mismatched struct{}

func (*mismatched) ToolOperations() []schema.OperationSpec {
	return []schema.OperationSpec{
		{Method: "TooFew", Params: []schema.ParamSpec{schema.Param("a", "")}},
		{Method: "Missing"},
		{Method: "Triple"},
		{Method: "Ok", Name: "mismatched_ok"},
	}
}

func (*mismatched) TooFew(a, b int) int { return a }

func (*mismatched) Triple() (int, int, error) { return 0, 0, nil }

func (*mismatched) Ok() string { return "ok" }

// unmarked does not implement schema.ToolService.
type unmarked struct{}

func (*unmarked) Hidden() string { return "hidden" }

func testSource() TypeList {
	return TypesOf(
		(*calculator)(nil),
		(*broken)(nil),
		(*shadow)(nil),
		(*mismatched)(nil),
		(*unmarked)(nil),
	)
}

func testResolver() ResolverFunc {
	instances := map[reflect.Type]any{
		reflect.TypeOf((*calculator)(nil)): &calculator{},
		reflect.TypeOf((*shadow)(nil)):     &shadow{},
		reflect.TypeOf((*mismatched)(nil)): &mismatched{},
	}
	return func(t reflect.Type) (any, error) {
		if svc, ok := instances[t]; ok {
			return svc, nil
		}
		return nil, fmt.Errorf("no registration for %s", t)
	}
}

func newTestInvoker(opts ...Option) *Invoker {
	return NewInvoker(NewRegistry(testSource()), testResolver(), opts...)
}
