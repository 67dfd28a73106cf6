package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"formation-hub/backend/internal/model"
	pkgerrors "formation-hub/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Name
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[string]*model.Subject
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[string]*model.Subject)}
}

func (m *mockSubjectRepo) Create(_ context.Context, s *model.Subject) error {
	if s.SubjectID == "" {
		s.SubjectID = "subject-" + strings.ToLower(s.Name)
	}
	m.subjects[s.SubjectID] = s
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) ListByNames(_ context.Context, names []string) ([]model.Subject, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(n)] = true
	}
	var out []model.Subject
	for _, s := range m.subjects {
		if wanted[strings.ToLower(s.Name)] {
			out = append(out, *s)
		}
	}
	return out, nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	classes map[string][]string // student → class ids
	calls   int
	err     error
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{classes: make(map[string][]string)}
}

func (m *mockEnrollmentRepo) ListActiveClassIDs(_ context.Context, studentID string) ([]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.classes[studentID], nil
}

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.ClassEnrollment) error {
	if e.Status == model.EnrollmentActive {
		m.classes[e.StudentID] = append(m.classes[e.StudentID], e.ClassID)
	}
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
	// leaky 为 true 时忽略班级与区间过滤，模拟上游查询未过滤
	leaky     bool
	updateErr error
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, c *model.Course) error {
	if c.CourseID == "" {
		c.CourseID = fmt.Sprintf("course-%d", len(m.courses)+1)
	}
	if c.Version == 0 {
		c.Version = 1
	}
	m.courses[c.CourseID] = c
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListByClassesAndRange(_ context.Context, classIDs []string, start, end time.Time) ([]model.Course, error) {
	in := make(map[string]bool, len(classIDs))
	for _, id := range classIDs {
		in[id] = true
	}
	var out []model.Course
	for _, c := range m.courses {
		if !m.leaky && !in[c.ClassID] {
			continue
		}
		if m.leaky || (!c.ScheduledAt.Before(start) && !c.ScheduledAt.After(end)) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) ListActiveBefore(_ context.Context, t time.Time) ([]model.Course, error) {
	var out []model.Course
	for _, c := range m.courses {
		if (c.Status == "scheduled" || c.Status == "live") && !c.ScheduledAt.After(t) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) UpdateStatus(_ context.Context, c *model.Course, status string, updatedBy *string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.courses[c.CourseID]
	if !ok || stored.Version != c.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = status
	stored.UpdatedBy = updatedBy
	stored.Version++
	c.Status = status
	c.UpdatedBy = updatedBy
	c.Version = stored.Version
	return nil
}

// ── Mock RecurringSlotRepository ──

type mockRecurringSlotRepo struct {
	slots map[string]*model.RecurringSlot
	seq   int
}

func newMockRecurringSlotRepo() *mockRecurringSlotRepo {
	return &mockRecurringSlotRepo{slots: make(map[string]*model.RecurringSlot)}
}

func (m *mockRecurringSlotRepo) Create(_ context.Context, s *model.RecurringSlot) error {
	if s.RecurringSlotID == "" {
		m.seq++
		s.RecurringSlotID = fmt.Sprintf("slot-%d", m.seq)
	}
	m.slots[s.RecurringSlotID] = s
	return nil
}

func (m *mockRecurringSlotRepo) GetByID(_ context.Context, id string) (*model.RecurringSlot, error) {
	if s, ok := m.slots[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRecurringSlotRepo) ListByClass(ctx context.Context, classID string) ([]model.RecurringSlot, error) {
	return m.ListByClasses(ctx, []string{classID})
}

func (m *mockRecurringSlotRepo) ListByClasses(_ context.Context, classIDs []string) ([]model.RecurringSlot, error) {
	in := make(map[string]bool, len(classIDs))
	for _, id := range classIDs {
		in[id] = true
	}
	var out []model.RecurringSlot
	for _, s := range m.slots {
		if in[s.ClassID] {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockRecurringSlotRepo) Delete(_ context.Context, id string, _ string) error {
	if _, ok := m.slots[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.slots, id)
	return nil
}

func (m *mockRecurringSlotRepo) ReplaceByClass(ctx context.Context, classID string, slots []model.RecurringSlot) error {
	for id, s := range m.slots {
		if s.ClassID == classID {
			delete(m.slots, id)
		}
	}
	for i := range slots {
		if err := m.Create(ctx, &slots[i]); err != nil {
			return err
		}
	}
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.Assignment)}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.Assignment) error {
	if a.AssignmentID == "" {
		a.AssignmentID = fmt.Sprintf("assignment-%d", len(m.assignments)+1)
	}
	m.assignments[a.AssignmentID] = a
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByClassesAndRange(_ context.Context, classIDs []string, start, end time.Time) ([]model.Assignment, error) {
	in := make(map[string]bool, len(classIDs))
	for _, id := range classIDs {
		in[id] = true
	}
	var out []model.Assignment
	for _, a := range m.assignments {
		if in[a.ClassID] && !a.DueDate.Before(start) && !a.DueDate.After(end) {
			out = append(out, *a)
		}
	}
	return out, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records []model.Attendance
	err     error
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{}
}

func (m *mockAttendanceRepo) Create(_ context.Context, a *model.Attendance) error {
	m.records = append(m.records, *a)
	return nil
}

func (m *mockAttendanceRepo) ListByStudentAndCourses(_ context.Context, studentID string, courseIDs []string) ([]model.Attendance, error) {
	in := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		in[id] = true
	}
	var out []model.Attendance
	for _, r := range m.records {
		if r.StudentID == studentID && in[r.CourseID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockAttendanceRepo) CountByStudent(_ context.Context, studentID string) (map[string]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	counts := make(map[string]int64)
	for _, r := range m.records {
		if r.StudentID == studentID {
			counts[r.Status]++
		}
	}
	return counts, nil
}

// ── Mock ScopeCache ──

type mockScopeCache struct {
	entries map[string][]string
	getErr  error
	sets    int
}

func newMockScopeCache() *mockScopeCache {
	return &mockScopeCache{entries: make(map[string][]string)}
}

func (m *mockScopeCache) GetClassScope(_ context.Context, studentID string) ([]string, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	ids, ok := m.entries[studentID]
	return ids, ok, nil
}

func (m *mockScopeCache) SetClassScope(_ context.Context, studentID string, classIDs []string, _ time.Duration) error {
	m.sets++
	m.entries[studentID] = classIDs
	return nil
}

func (m *mockScopeCache) InvalidateClassScope(_ context.Context, studentID string) error {
	delete(m.entries, studentID)
	return nil
}

var errMockDB = errors.New("mock db failure")
