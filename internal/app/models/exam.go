package models

import "time"

// Exam represents a scheduled examination for a course
type Exam struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	Subject   string    `json:"subject" db:"subject"`
	ExamDate  time.Time `json:"examDate" db:"exam_date"`
	StartTime string    `json:"startTime" db:"start_time"`
	EndTime   string    `json:"endTime" db:"end_time"`
	Venue     string    `json:"venue" db:"venue"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Course *CourseSummary `json:"course,omitempty"`
}

// ExamResult represents one student's result for an exam.
// The pair (exam, student) is unique.
type ExamResult struct {
	ID        int64     `json:"id" db:"id"`
	ExamID    int64     `json:"examId" db:"exam_id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	Marks     float64   `json:"marks" db:"marks"`
	Grade     string    `json:"grade" db:"grade"`
	Feedback  string    `json:"feedback,omitempty" db:"feedback"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Student *UserSummary `json:"student,omitempty"`
}
