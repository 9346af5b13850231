package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository      *UserRepository
	CourseRepository    *CourseRepository
	FeedbackRepository  *FeedbackRepository
	TimetableRepository *TimetableRepository
	ExamRepository      *ExamRepository
	PaymentRepository   *PaymentRepository
	EventRepository     *EventRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:      NewUserRepository(db),
		CourseRepository:    NewCourseRepository(db),
		FeedbackRepository:  NewFeedbackRepository(db),
		TimetableRepository: NewTimetableRepository(db),
		ExamRepository:      NewExamRepository(db),
		PaymentRepository:   NewPaymentRepository(db),
		EventRepository:     NewEventRepository(db),
	}
}
