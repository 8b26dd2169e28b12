package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/edutools/edutools/internal/apiclient"
	"github.com/edutools/edutools/internal/schema"
	"github.com/edutools/edutools/internal/toolkit"
)

// QuizTools exposes quizzes and quiz attempts to the agent.
type QuizTools struct {
	api apiclient.Client
}

func NewQuizTools(api apiclient.Client) *QuizTools {
	return &QuizTools{api: api}
}

func (*QuizTools) ToolOperations() []schema.OperationSpec {
	return []schema.OperationSpec{
		{
			Method:      "ListQuizzes",
			Description: "List the quizzes of a course.",
			Params:      []schema.ParamSpec{schema.Param("courseId", "Course id")},
		},
		{
			Method:      "GetQuiz",
			Description: "Get a quiz and its questions by id.",
			Params:      []schema.ParamSpec{schema.Param("id", "Quiz id")},
		},
		{
			Method:      "CreateQuiz",
			Description: "Create a quiz in a course. Questions are objects with prompt, choices and answer (index of the correct choice).",
			Params: []schema.ParamSpec{
				schema.Param("courseId", "Course id"),
				schema.Param("quiz", "Quiz fields"),
			},
		},
		{
			Method:      "SubmitAttempt",
			Description: "Submit a user's answers to a quiz and return the graded result.",
			Params: []schema.ParamSpec{
				schema.Param("quizId", "Quiz id"),
				schema.Param("userId", "User id"),
				schema.Param("answers", "Chosen answer index per question, in question order"),
			},
		},
	}
}

func (t *QuizTools) ListQuizzes(ctx context.Context, courseID int) ([]Quiz, error) {
	var out []Quiz
	if err := t.api.Get(ctx, fmt.Sprintf("/courses/%d/quizzes", courseID), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Quiz{}
	}
	return out, nil
}

func (t *QuizTools) GetQuiz(ctx context.Context, id int) (*Quiz, error) {
	var q Quiz
	if err := t.api.Get(ctx, fmt.Sprintf("/quizzes/%d", id), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (t *QuizTools) CreateQuiz(ctx context.Context, courseID int, quiz QuizInput) (*Quiz, error) {
	for i, q := range quiz.Questions {
		if q.Answer >= len(q.Choices) {
			return nil, fmt.Errorf("question %d: answer %d out of range", i+1, q.Answer)
		}
	}
	var q Quiz
	if err := t.api.Post(ctx, fmt.Sprintf("/courses/%d/quizzes", courseID), quiz, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// SubmitAttempt grades in the background; grading on the platform can take
// a while for large quizzes.
func (t *QuizTools) SubmitAttempt(ctx context.Context, quizID, userID int, answers []int) *toolkit.Pending[AttemptResult] {
	return toolkit.Go(func() (AttemptResult, error) {
		if len(answers) == 0 {
			return AttemptResult{}, errors.New("answers must not be empty")
		}
		var res AttemptResult
		attempt := Attempt{UserID: userID, Answers: answers}
		if err := t.api.Post(ctx, fmt.Sprintf("/quizzes/%d/attempts", quizID), attempt, &res); err != nil {
			return AttemptResult{}, err
		}
		return res, nil
	})
}
