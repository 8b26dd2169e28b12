package services

import "github.com/edutools/edutools/internal/toolkit"

// Catalog lists every tool service type scanned at startup.
func Catalog() toolkit.TypeList {
	return toolkit.TypesOf(
		(*CourseTools)(nil),
		(*UserTools)(nil),
		(*QuizTools)(nil),
	)
}
