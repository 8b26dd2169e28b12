package services

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutools/edutools/internal/apiclient"
	"github.com/edutools/edutools/internal/toolkit"
)

type request struct {
	method string
	path   string
	body   any
}

// fakeAPI answers from canned JSON responses keyed by "METHOD path".
type fakeAPI struct {
	mu        sync.Mutex
	requests  []request
	responses map[string]string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{responses: map[string]string{}}
}

func (f *fakeAPI) record(method, path string, body, out any) error {
	f.mu.Lock()
	f.requests = append(f.requests, request{method, path, body})
	resp, ok := f.responses[method+" "+path]
	f.mu.Unlock()

	if !ok {
		return &apiclient.APIError{Method: method, Path: path, Status: 404, Body: "not found"}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(resp), out)
}

func (f *fakeAPI) Get(_ context.Context, path string, out any) error {
	return f.record("GET", path, nil, out)
}

func (f *fakeAPI) Post(_ context.Context, path string, body, out any) error {
	return f.record("POST", path, body, out)
}

func (f *fakeAPI) Put(_ context.Context, path string, body, out any) error {
	return f.record("PUT", path, body, out)
}

func (f *fakeAPI) Delete(_ context.Context, path string) error {
	return f.record("DELETE", path, nil, nil)
}

func (f *fakeAPI) last() request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newInvoker(api apiclient.Client) *toolkit.Invoker {
	instances := map[reflect.Type]any{
		reflect.TypeOf((*CourseTools)(nil)): NewCourseTools(api),
		reflect.TypeOf((*UserTools)(nil)):   NewUserTools(api),
		reflect.TypeOf((*QuizTools)(nil)):   NewQuizTools(api),
	}
	resolver := toolkit.ResolverFunc(func(t reflect.Type) (any, error) {
		if svc, ok := instances[t]; ok {
			return svc, nil
		}
		return nil, fmt.Errorf("no registration for %s", t)
	})
	return toolkit.NewInvoker(toolkit.NewRegistry(Catalog()), resolver)
}

func TestCatalog_AllOperationsDiscovered(t *testing.T) {
	reg := toolkit.NewRegistry(Catalog())

	want := []string{
		"CreateCourse", "CreateQuiz", "CreateUser", "DeleteCourse", "DeleteUser",
		"EnrollUser", "GetCourse", "GetQuiz", "GetUser", "ListCourses",
		"ListQuizzes", "ListUsers", "SubmitAttempt", "UpdateCourse",
	}
	assert.Equal(t, want, reg.Names())
}

func TestCourseTools_ListCoursesDefaults(t *testing.T) {
	api := newFakeAPI()
	api.responses["GET /courses?page=1&pageSize=20"] = `[{"id":1,"title":"Algebra","published":true}]`
	inv := newInvoker(api)

	got := inv.Call(context.Background(), "ListCourses", nil)

	var courses []Course
	require.NoError(t, json.Unmarshal([]byte(got), &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "Algebra", courses[0].Title)
}

func TestCourseTools_ListCoursesSearch(t *testing.T) {
	api := newFakeAPI()
	api.responses["GET /courses?page=2&pageSize=5&search=bio"] = `[]`
	inv := newInvoker(api)

	got := inv.Call(context.Background(), "ListCourses", map[string]any{"page": 2, "pageSize": "5", "search": "bio"})
	assert.Equal(t, "[]", got)
}

func TestCourseTools_GetCourseCoercesID(t *testing.T) {
	api := newFakeAPI()
	api.responses["GET /courses/7"] = `{"id":7,"title":"Chemistry","published":false}`
	inv := newInvoker(api)

	got := inv.Call(context.Background(), "GetCourse", map[string]any{"id": "7"})

	var c Course
	require.NoError(t, json.Unmarshal([]byte(got), &c))
	assert.Equal(t, 7, c.ID)
}

func TestCourseTools_APIErrorBecomesPayload(t *testing.T) {
	inv := newInvoker(newFakeAPI())

	msg, ok := toolkit.ParseFailure(inv.Call(context.Background(), "GetCourse", map[string]any{"id": 99}))
	require.True(t, ok)
	assert.Equal(t, "GET /courses/99: 404 not found", msg)
}

func TestCourseTools_CreateCourseValidates(t *testing.T) {
	api := newFakeAPI()
	api.responses["POST /courses"] = `{"id":3,"title":"Biology"}`
	inv := newInvoker(api)

	msg, ok := toolkit.ParseFailure(inv.Call(context.Background(), "CreateCourse", map[string]any{
		"course": map[string]any{"description": "no title"},
	}))
	require.True(t, ok)
	assert.Contains(t, msg, "argument 'course'")

	got := inv.Call(context.Background(), "CreateCourse", map[string]any{
		"course": map[string]any{"title": "Biology", "published": true},
	})
	assert.Contains(t, got, `"id":3`)
	assert.Equal(t, CourseInput{Title: "Biology", Published: true}, api.last().body)
}

func TestCourseTools_DeleteAndEnroll(t *testing.T) {
	api := newFakeAPI()
	api.responses["DELETE /courses/4"] = ``
	api.responses["POST /courses/4/enrollments"] = ``
	inv := newInvoker(api)

	assert.Equal(t, "Course 4 deleted", inv.Call(context.Background(), "DeleteCourse", map[string]any{"id": 4}))
	assert.Equal(t, "User 9 enrolled in course 4",
		inv.Call(context.Background(), "EnrollUser", map[string]any{"courseId": 4, "userId": 9}))
	assert.Equal(t, map[string]int{"userId": 9}, api.last().body)
}

func TestUserTools_CreateUserDefaultsRole(t *testing.T) {
	api := newFakeAPI()
	api.responses["POST /users"] = `{"id":5,"name":"Ada","email":"ada@example.com","role":"student"}`
	inv := newInvoker(api)

	got := inv.Call(context.Background(), "CreateUser", map[string]any{
		"user": map[string]any{"name": "Ada", "email": "ada@example.com"},
	})
	assert.Contains(t, got, `"role":"student"`)
	assert.Equal(t, "student", api.last().body.(UserInput).Role)

	msg, ok := toolkit.ParseFailure(inv.Call(context.Background(), "CreateUser", map[string]any{
		"user": map[string]any{"name": "Bob", "email": "bob", "role": "janitor"},
	}))
	require.True(t, ok)
	assert.Contains(t, msg, "argument 'user'")
}

func TestUserTools_ListUsersByRole(t *testing.T) {
	api := newFakeAPI()
	api.responses["GET /users?role=instructor"] = `[{"id":2,"name":"Grace","role":"instructor"}]`
	inv := newInvoker(api)

	got := inv.Call(context.Background(), "ListUsers", map[string]any{"role": "instructor"})
	assert.True(t, strings.HasPrefix(got, `[{"id":2`))
}

func TestQuizTools_CreateQuizRejectsBadAnswer(t *testing.T) {
	inv := newInvoker(newFakeAPI())

	msg, ok := toolkit.ParseFailure(inv.Call(context.Background(), "CreateQuiz", map[string]any{
		"courseId": 1,
		"quiz": map[string]any{
			"title":     "Week 1",
			"passScore": 0.5,
			"questions": []any{
				map[string]any{"prompt": "2+2?", "choices": []any{"3", "4"}, "answer": 5},
			},
		},
	}))
	require.True(t, ok)
	assert.Equal(t, "question 1: answer 5 out of range", msg)
}

func TestQuizTools_SubmitAttemptAwaitsGrading(t *testing.T) {
	api := newFakeAPI()
	api.responses["POST /quizzes/3/attempts"] = `{"quizId":3,"userId":8,"correct":2,"total":2,"score":1,"passed":true}`
	inv := newInvoker(api)

	got := inv.Call(context.Background(), "SubmitAttempt", map[string]any{
		"quizId": 3, "userId": 8, "answers": []any{1.0, 0.0},
	})

	var res AttemptResult
	require.NoError(t, json.Unmarshal([]byte(got), &res))
	assert.True(t, res.Passed)
	assert.Equal(t, Attempt{UserID: 8, Answers: []int{1, 0}}, api.last().body)
}

func TestQuizTools_SubmitAttemptMissingAnswers(t *testing.T) {
	api := newFakeAPI()
	inv := newInvoker(api)

	msg, ok := toolkit.ParseFailure(inv.Call(context.Background(), "SubmitAttempt", map[string]any{"quizId": 3, "userId": 8}))
	require.True(t, ok)
	assert.Equal(t, "answers must not be empty", msg)
	assert.Empty(t, api.requests)
}

func TestQuizTools_SubmitAttemptAnswersAsJSONText(t *testing.T) {
	api := newFakeAPI()
	api.responses["POST /quizzes/3/attempts"] = `{"quizId":3,"userId":8,"correct":1,"total":2,"score":0.5}`
	inv := newInvoker(api)

	got := inv.Call(context.Background(), "SubmitAttempt", map[string]any{
		"quizId": "3", "userId": 8, "answers": "[2, 1]",
	})
	assert.Contains(t, got, `"correct":1`)
	assert.Equal(t, Attempt{UserID: 8, Answers: []int{2, 1}}, api.last().body)
}

func TestCourseTools_CreateCourseFromJSONText(t *testing.T) {
	api := newFakeAPI()
	api.responses["POST /courses"] = `{"id":11,"title":"Bio"}`
	inv := newInvoker(api)

	out, err := inv.Invoke(context.Background(), "CreateCourse", map[string]any{"course": "{\"title\":\"Bio\"}"})
	require.NoError(t, err)
	assert.Contains(t, out, `"id":11`)
	assert.Equal(t, CourseInput{Title: "Bio"}, api.last().body)

	api.responses["PUT /courses/10"] = `{"id":10,"title":"Bio II"}`
	out, err = inv.Invoke(context.Background(), "UpdateCourse", map[string]any{
		"id": "010", "course": `{"title":"Bio II","published":true}`,
	})
	require.NoError(t, err)
	assert.Contains(t, out, `"id":10`)
	assert.Equal(t, "/courses/10", api.last().path)
	assert.Equal(t, CourseInput{Title: "Bio II", Published: true}, api.last().body)
}
