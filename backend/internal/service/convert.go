package service

import (
	"time"

	"formation-hub/backend/internal/calendar"
	"formation-hub/backend/internal/dto"
	"formation-hub/backend/internal/model"
)

func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC3339)
}

func toOccurrenceResponse(o calendar.Occurrence, loc *time.Location) dto.OccurrenceResponse {
	return dto.OccurrenceResponse{
		ID:              o.ID,
		CourseID:        o.CourseID,
		SlotID:          o.SlotID,
		Title:           o.Title,
		SubjectName:     o.SubjectName,
		TeacherName:     o.TeacherName,
		ClassID:         o.ClassID,
		ClassName:       o.ClassName,
		ScheduledAt:     formatTime(o.ScheduledAt, loc),
		EndAt:           formatTime(o.EndAt(), loc),
		DurationMinutes: o.DurationMinutes,
		Status:          string(o.Status),
		Color:           o.Status.Color(),
		Room:            o.Room,
		MeetingURL:      o.MeetingURL,
	}
}

func toAssignmentDueResponse(d calendar.AssignmentDue, loc *time.Location) dto.AssignmentDueResponse {
	return dto.AssignmentDueResponse{
		ID:          d.AssignmentID,
		ClassID:     d.ClassID,
		SubjectName: d.SubjectName,
		Title:       d.Title,
		DueDate:     formatTime(d.DueDate, loc),
		CourseID:    d.CourseID,
	}
}

// toDayBucketResponse marks 可为 nil
func toDayBucketResponse(b calendar.DayBucket, today time.Time, marks map[string]calendar.AttendanceMark, loc *time.Location) dto.DayBucketResponse {
	courses := make([]dto.OccurrenceResponse, 0, len(b.Occurrences))
	for _, o := range b.Occurrences {
		r := toOccurrenceResponse(o, loc)
		if m, ok := marks[o.ID]; ok {
			r.Attendance = &dto.AttendanceResponse{Status: m.Status, MarkedAt: formatTime(m.MarkedAt, loc)}
		}
		courses = append(courses, r)
	}
	assignments := make([]dto.AssignmentDueResponse, 0, len(b.Assignments))
	for _, d := range b.Assignments {
		assignments = append(assignments, toAssignmentDueResponse(d, loc))
	}
	return dto.DayBucketResponse{
		Date:        calendar.FormatDate(b.Date),
		DayName:     b.DayName,
		IsToday:     calendar.SameDay(b.Date, today, loc),
		Courses:     courses,
		Assignments: assignments,
		Entries:     b.Entries,
	}
}

func toDayBucketResponses(buckets []calendar.DayBucket, today time.Time, loc *time.Location) []dto.DayBucketResponse {
	out := make([]dto.DayBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, toDayBucketResponse(b, today, nil, loc))
	}
	return out
}

func toSlotResponse(s *model.RecurringSlot) dto.SlotResponse {
	r := dto.SlotResponse{
		ID:        s.RecurringSlotID,
		ClassID:   s.ClassID,
		SubjectID: s.SubjectID,
		DayOfWeek: s.DayOfWeek,
		StartTime: trimSeconds(s.StartTime),
		EndTime:   trimSeconds(s.EndTime),
		Room:      s.Room,
	}
	if s.TeacherID != nil {
		r.TeacherID = *s.TeacherID
	}
	if s.Class != nil {
		r.ClassName = s.Class.Name
	}
	if s.Subject != nil {
		r.SubjectName = s.Subject.Name
	}
	if s.Teacher != nil {
		r.TeacherName = s.Teacher.Name
	}
	return r
}

// trimSeconds PostgreSQL TIME 返回 HH:MM:SS，对外统一为 HH:MM
func trimSeconds(t string) string {
	if c, err := calendar.ParseClockTime(t); err == nil {
		return c.String()
	}
	return t
}
