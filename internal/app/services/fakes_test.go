package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/app/repositories"
	"github.com/mete/schoolhub/internal/pkg/apperrors"
)

// In-memory stores backing the service tests. They reproduce the repository
// contracts: nil for missing rows, sentinel errors for constraint violations,
// and the persist-time feedback rules.

type fakeUserStore struct {
	users map[int64]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[int64]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	return s.users[id], nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeCourseStore struct {
	courses map[int64]*models.Course
}

func newFakeCourseStore(courses ...*models.Course) *fakeCourseStore {
	s := &fakeCourseStore{courses: make(map[int64]*models.Course)}
	for _, c := range courses {
		s.courses[c.ID] = c
	}
	return s
}

func (s *fakeCourseStore) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	return s.courses[id], nil
}

type fakeFeedbackStore struct {
	items  map[int64]*models.Feedback
	nextID int64
}

func newFakeFeedbackStore() *fakeFeedbackStore {
	return &fakeFeedbackStore{items: make(map[int64]*models.Feedback), nextID: 1}
}

func (s *fakeFeedbackStore) CreateFeedback(_ context.Context, f *models.Feedback) (int64, error) {
	clone := *f
	clone.ID = s.nextID
	clone.BeforeSave(time.Now())
	s.items[clone.ID] = &clone
	s.nextID++
	return clone.ID, nil
}

func (s *fakeFeedbackStore) GetFeedbackByID(_ context.Context, id int64) (*models.Feedback, error) {
	f, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	clone := *f
	return &clone, nil
}

func (s *fakeFeedbackStore) UpdateFeedback(_ context.Context, f *models.Feedback) (bool, error) {
	if _, ok := s.items[f.ID]; !ok {
		return false, nil
	}
	clone := *f
	clone.BeforeSave(time.Now())
	s.items[f.ID] = &clone
	return true, nil
}

func (s *fakeFeedbackStore) ListFeedback(_ context.Context, params repositories.FeedbackListParams) ([]*models.Feedback, int64, error) {
	var matched []*models.Feedback
	for _, f := range s.items {
		if params.TeacherID != nil && f.TeacherID != *params.TeacherID {
			continue
		}
		if params.StudentID != nil && f.StudentID != *params.StudentID {
			continue
		}
		if params.CourseID != nil && f.CourseID != *params.CourseID {
			continue
		}
		if params.Status != "" && string(f.Status) != params.Status {
			continue
		}
		if params.Priority != "" && string(f.Priority) != params.Priority {
			continue
		}
		if params.Category != "" && string(f.Category) != params.Category {
			continue
		}
		if params.VisibleOnly && !f.VisibleToStudent {
			continue
		}
		if !params.IncludeArchived && f.IsArchived {
			continue
		}
		if params.Search != "" {
			q := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(f.Subject), q) && !strings.Contains(strings.ToLower(f.Message), q) {
				continue
			}
		}
		clone := *f
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
	})

	total := int64(len(matched))
	offset := (params.Page - 1) * params.Limit
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (s *fakeFeedbackStore) GetPendingByTeacher(_ context.Context, teacherID int64, limit int) ([]*models.Feedback, error) {
	var pending []*models.Feedback
	for _, f := range s.items {
		if f.TeacherID == teacherID && f.Status == models.StatusPending && !f.IsArchived {
			clone := *f
			pending = append(pending, &clone)
		}
	}
	rank := map[models.FeedbackPriority]int{
		models.PriorityUrgent: 0,
		models.PriorityHigh:   1,
		models.PriorityMedium: 2,
		models.PriorityLow:    3,
	}
	sort.Slice(pending, func(i, j int) bool {
		if rank[pending[i].Priority] != rank[pending[j].Priority] {
			return rank[pending[i].Priority] < rank[pending[j].Priority]
		}
		return pending[i].SubmittedAt.Before(pending[j].SubmittedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *fakeFeedbackStore) statsMatch(f *models.Feedback, params repositories.FeedbackStatsParams) bool {
	if f.IsArchived {
		return false
	}
	if params.TeacherID != nil && f.TeacherID != *params.TeacherID {
		return false
	}
	if params.From != nil && f.SubmittedAt.Before(*params.From) {
		return false
	}
	if params.To != nil && f.SubmittedAt.After(*params.To) {
		return false
	}
	return true
}

func (s *fakeFeedbackStore) GetTeacherStats(_ context.Context, params repositories.FeedbackStatsParams) (*repositories.TeacherFeedbackStats, error) {
	stats := &repositories.TeacherFeedbackStats{}
	var ratingSum, ratingCount int64
	for _, f := range s.items {
		if !s.statsMatch(f, params) {
			continue
		}
		stats.Total++
		if f.Status == models.StatusPending {
			stats.Pending++
		}
		if f.Status == models.StatusResolved {
			stats.Resolved++
		}
		if f.IsUrgent {
			stats.UrgentCount++
		}
		if !f.SubmittedAt.Before(params.RecentSince) {
			stats.RecentFeedback++
		}
		if f.Rating != nil {
			ratingSum += int64(f.Rating.Score)
			ratingCount++
		}
	}
	if ratingCount > 0 {
		stats.AverageRating = float64(ratingSum) / float64(ratingCount)
	}
	return stats, nil
}

func (s *fakeFeedbackStore) GetDistribution(_ context.Context, params repositories.FeedbackStatsParams, column string) ([]dto.DistributionBucket, error) {
	counts := make(map[string]int64)
	for _, f := range s.items {
		if !s.statsMatch(f, params) {
			continue
		}
		switch column {
		case "category":
			counts[string(f.Category)]++
		case "priority":
			counts[string(f.Priority)]++
		}
	}
	buckets := make([]dto.DistributionBucket, 0, len(counts))
	for label, count := range counts {
		buckets = append(buckets, dto.DistributionBucket{Label: label, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Label < buckets[j].Label })
	return buckets, nil
}

type fakePaymentStore struct {
	fees     map[int64]*models.FeeStructure
	payments map[int64]*models.Payment
	nextID   int64
}

func newFakePaymentStore(fees ...*models.FeeStructure) *fakePaymentStore {
	s := &fakePaymentStore{
		fees:     make(map[int64]*models.FeeStructure),
		payments: make(map[int64]*models.Payment),
		nextID:   1,
	}
	for _, fee := range fees {
		s.fees[fee.ID] = fee
	}
	return s
}

func (s *fakePaymentStore) CreateFee(_ context.Context, fee *models.FeeStructure) (int64, error) {
	clone := *fee
	clone.ID = s.nextID
	s.fees[clone.ID] = &clone
	s.nextID++
	return clone.ID, nil
}

func (s *fakePaymentStore) GetFeeByID(_ context.Context, id int64) (*models.FeeStructure, error) {
	return s.fees[id], nil
}

func (s *fakePaymentStore) GetFees(_ context.Context, courseID *int64) ([]*models.FeeStructure, error) {
	var fees []*models.FeeStructure
	for _, fee := range s.fees {
		if courseID != nil && fee.CourseID != *courseID {
			continue
		}
		fees = append(fees, fee)
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i].ID < fees[j].ID })
	return fees, nil
}

func (s *fakePaymentStore) CreatePayment(_ context.Context, payment *models.Payment) (int64, error) {
	clone := *payment
	clone.ID = s.nextID
	s.payments[clone.ID] = &clone
	s.nextID++
	return clone.ID, nil
}

func (s *fakePaymentStore) GetPaymentByID(_ context.Context, id int64) (*models.Payment, error) {
	return s.payments[id], nil
}

func (s *fakePaymentStore) ListPayments(_ context.Context, params repositories.PaymentListParams) ([]*models.Payment, int64, error) {
	var matched []*models.Payment
	for _, p := range s.payments {
		if params.StudentID != nil && p.StudentID != *params.StudentID {
			continue
		}
		if params.Status != "" && string(p.Status) != params.Status {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	offset := (params.Page - 1) * params.Limit
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (s *fakePaymentStore) GetPaymentsByStudent(_ context.Context, studentID int64) ([]*models.Payment, error) {
	var payments []*models.Payment
	for _, p := range s.payments {
		if p.StudentID == studentID {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID < payments[j].ID })
	return payments, nil
}

func (s *fakePaymentStore) GetPaidTotalsByFee(_ context.Context) (map[int64]float64, error) {
	totals := make(map[int64]float64)
	for _, p := range s.payments {
		if p.Status == models.PaymentPaid {
			totals[p.FeeID] += p.Amount
		}
	}
	return totals, nil
}

type fakeEventStore struct {
	events       map[int64]*models.Event
	participants map[int64][]models.EventParticipant
	nextID       int64
}

func newFakeEventStore(events ...*models.Event) *fakeEventStore {
	s := &fakeEventStore{
		events:       make(map[int64]*models.Event),
		participants: make(map[int64][]models.EventParticipant),
		nextID:       100,
	}
	for _, e := range events {
		s.events[e.ID] = e
	}
	return s
}

func (s *fakeEventStore) CreateEvent(_ context.Context, event *models.Event) (int64, error) {
	clone := *event
	clone.ID = s.nextID
	s.events[clone.ID] = &clone
	s.nextID++
	return clone.ID, nil
}

func (s *fakeEventStore) GetEventByID(_ context.Context, id int64) (*models.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, nil
	}
	clone := *e
	return &clone, nil
}

func (s *fakeEventStore) ListEvents(_ context.Context, params repositories.EventListParams) ([]*models.Event, int64, error) {
	var matched []*models.Event
	for _, e := range s.events {
		if params.EventType != "" && string(e.EventType) != params.EventType {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].EventDate.Before(matched[j].EventDate) })
	return matched, int64(len(matched)), nil
}

func (s *fakeEventStore) UpdateEvent(_ context.Context, event *models.Event) error {
	if _, ok := s.events[event.ID]; !ok {
		return apperrors.ErrEventNotFound
	}
	clone := *event
	s.events[event.ID] = &clone
	return nil
}

func (s *fakeEventStore) DeleteEventWithParticipants(_ context.Context, eventID int64) error {
	if _, ok := s.events[eventID]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(s.events, eventID)
	delete(s.participants, eventID)
	return nil
}

func (s *fakeEventStore) AddParticipant(_ context.Context, participant *models.EventParticipant) (int64, error) {
	for _, p := range s.participants[participant.EventID] {
		if p.UserID == participant.UserID {
			return 0, apperrors.ErrAlreadyRegistered
		}
	}
	clone := *participant
	clone.ID = s.nextID
	s.nextID++
	s.participants[participant.EventID] = append(s.participants[participant.EventID], clone)
	return clone.ID, nil
}

func (s *fakeEventStore) CountActiveParticipants(_ context.Context, eventID int64) (int64, error) {
	var count int64
	for _, p := range s.participants[eventID] {
		if p.Status != models.ParticipantCancelled {
			count++
		}
	}
	return count, nil
}

func (s *fakeEventStore) GetParticipants(_ context.Context, eventID int64) ([]models.EventParticipant, error) {
	return s.participants[eventID], nil
}

func (s *fakeEventStore) UpdateParticipantStatus(_ context.Context, eventID, userID int64, status models.ParticipantStatus) error {
	for i, p := range s.participants[eventID] {
		if p.UserID == userID {
			s.participants[eventID][i].Status = status
			return nil
		}
	}
	return apperrors.ErrParticipantNotFound
}

type fakeExamStore struct {
	exams   map[int64]*models.Exam
	results map[int64][]*models.ExamResult
	nextID  int64
}

func newFakeExamStore(exams ...*models.Exam) *fakeExamStore {
	s := &fakeExamStore{
		exams:   make(map[int64]*models.Exam),
		results: make(map[int64][]*models.ExamResult),
		nextID:  100,
	}
	for _, e := range exams {
		s.exams[e.ID] = e
	}
	return s
}

func (s *fakeExamStore) CreateExam(_ context.Context, exam *models.Exam) (int64, error) {
	clone := *exam
	clone.ID = s.nextID
	s.exams[clone.ID] = &clone
	s.nextID++
	return clone.ID, nil
}

func (s *fakeExamStore) GetExamByID(_ context.Context, id int64) (*models.Exam, error) {
	e, ok := s.exams[id]
	if !ok {
		return nil, nil
	}
	clone := *e
	return &clone, nil
}

func (s *fakeExamStore) ListExams(_ context.Context, params repositories.ExamListParams) ([]*models.Exam, error) {
	var matched []*models.Exam
	for _, e := range s.exams {
		if params.CourseID != nil && e.CourseID != *params.CourseID {
			continue
		}
		if params.Date != nil && !e.ExamDate.Equal(*params.Date) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ExamDate.Before(matched[j].ExamDate) })
	return matched, nil
}

func (s *fakeExamStore) UpdateExam(_ context.Context, exam *models.Exam) error {
	if _, ok := s.exams[exam.ID]; !ok {
		return apperrors.ErrExamNotFound
	}
	clone := *exam
	s.exams[exam.ID] = &clone
	return nil
}

func (s *fakeExamStore) DeleteExamWithResults(_ context.Context, examID int64) error {
	if _, ok := s.exams[examID]; !ok {
		return apperrors.ErrExamNotFound
	}
	delete(s.exams, examID)
	delete(s.results, examID)
	return nil
}

func (s *fakeExamStore) AddResult(_ context.Context, result *models.ExamResult) (int64, error) {
	for _, r := range s.results[result.ExamID] {
		if r.StudentID == result.StudentID {
			return 0, apperrors.ErrDuplicateResult
		}
	}
	clone := *result
	clone.ID = s.nextID
	s.nextID++
	s.results[result.ExamID] = append(s.results[result.ExamID], &clone)
	return clone.ID, nil
}

func (s *fakeExamStore) GetResultsByExam(_ context.Context, examID int64) ([]*models.ExamResult, error) {
	return s.results[examID], nil
}

func (s *fakeExamStore) GetResultsByStudent(_ context.Context, studentID int64) ([]*models.ExamResult, error) {
	var results []*models.ExamResult
	for _, rs := range s.results {
		for _, r := range rs {
			if r.StudentID == studentID {
				results = append(results, r)
			}
		}
	}
	return results, nil
}

type fakeTimetableStore struct {
	entries map[int64]*models.TimetableEntry
	nextID  int64
}

func newFakeTimetableStore() *fakeTimetableStore {
	return &fakeTimetableStore{entries: make(map[int64]*models.TimetableEntry), nextID: 1}
}

func (s *fakeTimetableStore) conflicts(entry *models.TimetableEntry) bool {
	for _, e := range s.entries {
		if e.ID == entry.ID {
			continue
		}
		if e.Day != entry.Day || e.TimeSlot != entry.TimeSlot {
			continue
		}
		if e.CourseID == entry.CourseID || e.TeacherID == entry.TeacherID {
			return true
		}
	}
	return false
}

func (s *fakeTimetableStore) CreateEntry(_ context.Context, entry *models.TimetableEntry) (int64, error) {
	if s.conflicts(entry) {
		return 0, apperrors.ErrSchedulingConflict
	}
	clone := *entry
	clone.ID = s.nextID
	s.entries[clone.ID] = &clone
	s.nextID++
	return clone.ID, nil
}

func (s *fakeTimetableStore) GetEntryByID(_ context.Context, id int64) (*models.TimetableEntry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	clone := *e
	return &clone, nil
}

func (s *fakeTimetableStore) ListEntries(_ context.Context, params repositories.TimetableListParams) ([]*models.TimetableEntry, error) {
	var matched []*models.TimetableEntry
	for _, e := range s.entries {
		if params.CourseID != nil && e.CourseID != *params.CourseID {
			continue
		}
		if params.TeacherID != nil && e.TeacherID != *params.TeacherID {
			continue
		}
		if params.Day != "" && string(e.Day) != params.Day {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

func (s *fakeTimetableStore) UpdateEntry(_ context.Context, entry *models.TimetableEntry) error {
	if _, ok := s.entries[entry.ID]; !ok {
		return apperrors.ErrTimetableNotFound
	}
	if s.conflicts(entry) {
		return apperrors.ErrSchedulingConflict
	}
	clone := *entry
	s.entries[entry.ID] = &clone
	return nil
}

func (s *fakeTimetableStore) DeleteEntry(_ context.Context, id int64) error {
	if _, ok := s.entries[id]; !ok {
		return apperrors.ErrTimetableNotFound
	}
	delete(s.entries, id)
	return nil
}
