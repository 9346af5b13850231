package dto

// CreateTimetableEntryRequest is the body of POST /api/timetables
type CreateTimetableEntryRequest struct {
	CourseID  int64  `json:"courseId" validate:"required,min=1"`
	Day       string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	TimeSlot  string `json:"timeSlot" validate:"required,max=50"`
	Subject   string `json:"subject" validate:"required,max=200"`
	TeacherID int64  `json:"teacherId" validate:"required,min=1"`
	Room      string `json:"room" validate:"required,max=50"`
}

// UpdateTimetableEntryRequest is the body of PUT /api/timetables/:id.
// Absent fields keep their current value.
type UpdateTimetableEntryRequest struct {
	CourseID  *int64  `json:"courseId,omitempty" validate:"omitempty,min=1"`
	Day       *string `json:"day,omitempty" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	TimeSlot  *string `json:"timeSlot,omitempty" validate:"omitempty,max=50"`
	Subject   *string `json:"subject,omitempty" validate:"omitempty,max=200"`
	TeacherID *int64  `json:"teacherId,omitempty" validate:"omitempty,min=1"`
	Room      *string `json:"room,omitempty" validate:"omitempty,max=50"`
}

// CreateExamRequest is the body of POST /api/exam
type CreateExamRequest struct {
	CourseID  int64  `json:"courseId" validate:"required,min=1"`
	Title     string `json:"title" validate:"required,max=200"`
	Subject   string `json:"subject" validate:"required,max=200"`
	ExamDate  string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,max=20"`
	EndTime   string `json:"endTime" validate:"required,max=20"`
	Venue     string `json:"venue" validate:"required,max=200"`
}

// UpdateExamRequest is the body of PUT /api/exam/:id
type UpdateExamRequest struct {
	CourseID  *int64  `json:"courseId,omitempty" validate:"omitempty,min=1"`
	Title     *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Subject   *string `json:"subject,omitempty" validate:"omitempty,max=200"`
	ExamDate  *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime *string `json:"startTime,omitempty" validate:"omitempty,max=20"`
	EndTime   *string `json:"endTime,omitempty" validate:"omitempty,max=20"`
	Venue     *string `json:"venue,omitempty" validate:"omitempty,max=200"`
}

// AddExamResultRequest is the body of POST /api/exam/:id/results
type AddExamResultRequest struct {
	StudentID int64   `json:"studentId" validate:"required,min=1"`
	Marks     float64 `json:"marks" validate:"min=0"`
	Grade     string  `json:"grade" validate:"required,max=5"`
	Feedback  string  `json:"feedback,omitempty" validate:"omitempty,max=2000"`
}
