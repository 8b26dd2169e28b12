package services

import "time"

// Course mirrors the resource API's course representation.
type Course struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	InstructorID int       `json:"instructorId,omitempty"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// CourseInput is the payload for creating or updating a course.
type CourseInput struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description,omitempty" validate:"max=4000"`
	InstructorID int    `json:"instructorId,omitempty" validate:"gte=0"`
	Published    bool   `json:"published"`
}

// User mirrors the resource API's user representation.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserInput is the payload for creating a user.
type UserInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=student instructor admin"`
}

// Question is one multiple-choice question of a quiz.
type Question struct {
	ID      int      `json:"id,omitempty"`
	Prompt  string   `json:"prompt" validate:"required"`
	Choices []string `json:"choices" validate:"min=2,dive,required"`
	// Answer is the index of the correct choice.
	Answer int `json:"answer" validate:"gte=0"`
}

// Quiz mirrors the resource API's quiz representation.
type Quiz struct {
	ID        int        `json:"id"`
	CourseID  int        `json:"courseId"`
	Title     string     `json:"title"`
	PassScore float64    `json:"passScore"`
	Questions []Question `json:"questions,omitempty"`
}

// QuizInput is the payload for creating a quiz.
type QuizInput struct {
	Title     string     `json:"title" validate:"required"`
	PassScore float64    `json:"passScore" validate:"gte=0,lte=1"`
	Questions []Question `json:"questions" validate:"min=1,dive"`
}

// Attempt is a learner's submission for a quiz.
type Attempt struct {
	UserID  int   `json:"userId"`
	Answers []int `json:"answers"`
}

// AttemptResult is the graded outcome of an Attempt.
type AttemptResult struct {
	QuizID  int     `json:"quizId"`
	UserID  int     `json:"userId"`
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Score   float64 `json:"score"`
	Passed  bool    `json:"passed"`
}
