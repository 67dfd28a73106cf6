package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"formation-hub/backend/config"
	"formation-hub/backend/internal/model"
	"formation-hub/backend/internal/repository"
	"formation-hub/backend/pkg/clock"
)

// ── 测试辅助 ──

const (
	testStudentID = "student-1"
	testClassA    = "class-a"
	testClassB    = "class-b"
	testTeacherID = "teacher-1"
)

type testEnv struct {
	svc         *Service
	users       *mockUserRepo
	subjects    *mockSubjectRepo
	enrollments *mockEnrollmentRepo
	courses     *mockCourseRepo
	slots       *mockRecurringSlotRepo
	assignments *mockAssignmentRepo
	attendance  *mockAttendanceRepo
	cache       *mockScopeCache
}

func testConfig() *config.Config {
	return &config.Config{
		Calendar: config.CalendarConfig{
			Timezone:      "UTC",
			Locale:        "fr",
			ProductID:     "-//Formation Hub//Calendar//FR",
			CalendarName:  "Formation Hub",
			UIDDomain:     "formation-hub.app",
			ScopeCacheTTL: 5 * time.Minute,
			Links: config.LinkConfig{
				CoursePath:     "/courses",
				AssignmentPath: "/assignments",
				DayViewPath:    "/calendar/day",
			},
		},
	}
}

// setupTestEnv 学生 student-1 选修 class-a；class-b 为他人班级
func setupTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	env := &testEnv{
		users:       newMockUserRepo(),
		subjects:    newMockSubjectRepo(),
		enrollments: newMockEnrollmentRepo(),
		courses:     newMockCourseRepo(),
		slots:       newMockRecurringSlotRepo(),
		assignments: newMockAssignmentRepo(),
		attendance:  newMockAttendanceRepo(),
		cache:       newMockScopeCache(),
	}
	env.enrollments.classes[testStudentID] = []string{testClassA}
	env.users.users[testStudentID] = &model.User{UserID: testStudentID, Name: "Alice Martin", Role: "student"}

	repo := &repository.Repository{
		User:          env.users,
		Subject:       env.subjects,
		Enrollment:    env.enrollments,
		Course:        env.courses,
		RecurringSlot: env.slots,
		Assignment:    env.assignments,
		Attendance:    env.attendance,
	}
	svc, err := NewService(testConfig(), repo, env.cache, clock.Fixed(now), zap.NewNop())
	if err != nil {
		t.Fatalf("NewService 失败: %v", err)
	}
	env.svc = svc
	return env
}

var (
	mathSubject    = &model.Subject{SubjectID: "subject-math", Name: "Math"}
	physicsSubject = &model.Subject{SubjectID: "subject-physics", Name: "Physique"}
	dupont         = &model.User{UserID: testTeacherID, Name: "A. Dupont", Role: "teacher"}
)

func strPtr(s string) *string { return &s }

func (env *testEnv) addCourse(id, classID string, subject *model.Subject, at time.Time, minutes int, status string) *model.Course {
	c := &model.Course{
		CourseID:        id,
		ClassID:         classID,
		Title:           "Cours " + id,
		ScheduledAt:     at,
		DurationMinutes: minutes,
		Status:          status,
		Room:            "B12",
		TeacherID:       strPtr(testTeacherID),
		Teacher:         dupont,
		Class:           &model.Class{ClassID: classID, Name: "SIO1-" + classID},
	}
	if subject != nil {
		c.SubjectID = strPtr(subject.SubjectID)
		c.Subject = subject
	}
	_ = env.courses.Create(context.Background(), c)
	return c
}

func (env *testEnv) addAssignment(id, classID string, due time.Time) *model.Assignment {
	a := &model.Assignment{
		AssignmentID: id,
		ClassID:      classID,
		SubjectID:    strPtr(mathSubject.SubjectID),
		Subject:      mathSubject,
		Title:        "Devoir " + id,
		Description:  "Exercices 1 à 5",
		DueDate:      due,
	}
	_ = env.assignments.Create(context.Background(), a)
	return a
}
