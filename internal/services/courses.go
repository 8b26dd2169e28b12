// Package services holds the proxy services exposed to the agent as tools.
// Each service is a thin wrapper over the resource API; the tool registry
// discovers their operations through schema.ToolService.
package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/edutools/edutools/internal/apiclient"
	"github.com/edutools/edutools/internal/schema"
)

// CourseTools exposes course management to the agent.
type CourseTools struct {
	api apiclient.Client
}

func NewCourseTools(api apiclient.Client) *CourseTools {
	return &CourseTools{api: api}
}

func (*CourseTools) ToolOperations() []schema.OperationSpec {
	return []schema.OperationSpec{
		{
			Method:      "ListCourses",
			Description: "List courses, optionally filtered by a search term.",
			Params: []schema.ParamSpec{
				schema.OptionalParam("page", "Page number, starting at 1", 1),
				schema.OptionalParam("pageSize", "Courses per page", 20),
				schema.Param("search", "Case-insensitive title filter"),
			},
		},
		{
			Method:      "GetCourse",
			Description: "Get a course by id.",
			Params:      []schema.ParamSpec{schema.Param("id", "Course id")},
		},
		{
			Method:      "CreateCourse",
			Description: "Create a course. Pass a JSON object with title, description, instructorId and published.",
			Params:      []schema.ParamSpec{schema.Param("course", "Course fields")},
		},
		{
			Method:      "UpdateCourse",
			Description: "Replace the fields of an existing course.",
			Params: []schema.ParamSpec{
				schema.Param("id", "Course id"),
				schema.Param("course", "Course fields"),
			},
		},
		{
			Method:      "DeleteCourse",
			Description: "Delete a course by id.",
			Params:      []schema.ParamSpec{schema.Param("id", "Course id")},
		},
		{
			Method:      "EnrollUser",
			Description: "Enroll a user in a course.",
			Params: []schema.ParamSpec{
				schema.Param("courseId", "Course id"),
				schema.Param("userId", "User id"),
			},
		},
	}
}

func (t *CourseTools) ListCourses(ctx context.Context, page, pageSize int, search *string) ([]Course, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	if search != nil && *search != "" {
		q.Set("search", *search)
	}

	var out []Course
	if err := t.api.Get(ctx, "/courses?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Course{}
	}
	return out, nil
}

func (t *CourseTools) GetCourse(ctx context.Context, id int) (*Course, error) {
	var c Course
	if err := t.api.Get(ctx, fmt.Sprintf("/courses/%d", id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (t *CourseTools) CreateCourse(ctx context.Context, course CourseInput) (*Course, error) {
	var c Course
	if err := t.api.Post(ctx, "/courses", course, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (t *CourseTools) UpdateCourse(ctx context.Context, id int, course CourseInput) (*Course, error) {
	var c Course
	if err := t.api.Put(ctx, fmt.Sprintf("/courses/%d", id), course, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (t *CourseTools) DeleteCourse(ctx context.Context, id int) (string, error) {
	if err := t.api.Delete(ctx, fmt.Sprintf("/courses/%d", id)); err != nil {
		return "", err
	}
	return fmt.Sprintf("Course %d deleted", id), nil
}

func (t *CourseTools) EnrollUser(ctx context.Context, courseID, userID int) (string, error) {
	body := map[string]int{"userId": userID}
	if err := t.api.Post(ctx, fmt.Sprintf("/courses/%d/enrollments", courseID), body, nil); err != nil {
		return "", err
	}
	return fmt.Sprintf("User %d enrolled in course %d", userID, courseID), nil
}
