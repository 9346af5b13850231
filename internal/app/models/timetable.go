package models

import "time"

// TimetableEntry represents one recurring class slot. The pairs
// (course, day, timeSlot) and (teacher, day, timeSlot) are unique,
// enforced by compound indexes in the database.
type TimetableEntry struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	Day       Day       `json:"day" db:"day"`
	TimeSlot  string    `json:"timeSlot" db:"time_slot"`
	Subject   string    `json:"subject" db:"subject"`
	TeacherID int64     `json:"teacherId" db:"teacher_id"`
	Room      string    `json:"room" db:"room"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Populated references
	Course  *CourseSummary `json:"course,omitempty"`
	Teacher *UserSummary   `json:"teacher,omitempty"`
}
