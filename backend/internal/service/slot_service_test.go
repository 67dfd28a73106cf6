package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"formation-hub/backend/internal/dto"
	"formation-hub/backend/internal/model"
)

// ── Create / Delete 测试 ──

func TestSlotService_Create(t *testing.T) {
	env := setupTestEnv(t, testNow)
	_ = env.subjects.Create(context.Background(), mathSubject)

	resp, err := env.svc.Slot.Create(context.Background(), &dto.CreateSlotRequest{
		ClassID:   testClassA,
		SubjectID: mathSubject.SubjectID,
		DayOfWeek: 3,
		StartTime: "08:10",
		EndTime:   "10:05",
		Room:      "  B12 ",
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.StartTime != "08:10" || resp.EndTime != "10:05" || resp.Room != "B12" {
		t.Errorf("时段字段错误: %+v", resp)
	}

	stored := env.slots.slots[resp.ID]
	if stored == nil || stored.CreatedBy == nil || *stored.CreatedBy != "admin-1" {
		t.Error("应记录创建人")
	}
}

func TestSlotService_Create_Errors(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.CreateSlotRequest
		expected error
	}{
		{"开始晚于结束", dto.CreateSlotRequest{SubjectID: "subject-math", DayOfWeek: 1, StartTime: "10:00", EndTime: "09:00"}, ErrSlotInvalidInterval},
		{"起止相同", dto.CreateSlotRequest{SubjectID: "subject-math", DayOfWeek: 1, StartTime: "10:00", EndTime: "10:00"}, ErrSlotInvalidInterval},
		{"星期越界", dto.CreateSlotRequest{SubjectID: "subject-math", DayOfWeek: 8, StartTime: "09:00", EndTime: "10:00"}, ErrSlotInvalidInterval},
		{"时刻格式错误", dto.CreateSlotRequest{SubjectID: "subject-math", DayOfWeek: 1, StartTime: "9h", EndTime: "10:00"}, ErrSlotInvalidInterval},
		{"科目不存在", dto.CreateSlotRequest{SubjectID: "subject-none", DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}, ErrSlotSubjectNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t, testNow)
			_ = env.subjects.Create(context.Background(), mathSubject)
			tt.req.ClassID = testClassA

			if _, err := env.svc.Slot.Create(context.Background(), &tt.req, "admin-1"); !errors.Is(err, tt.expected) {
				t.Errorf("期望 %v，实际=%v", tt.expected, err)
			}
		})
	}
}

func TestSlotService_ListAndDelete(t *testing.T) {
	env := setupTestEnv(t, testNow)
	ctx := context.Background()
	_ = env.slots.Create(ctx, &model.RecurringSlot{
		RecurringSlotID: "s1", ClassID: testClassA, SubjectID: mathSubject.SubjectID, Subject: mathSubject,
		DayOfWeek: 1, StartTime: "09:00:00", EndTime: "10:30:00",
	})

	list, err := env.svc.Slot.List(ctx, testClassA)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(list) != 1 || list[0].StartTime != "09:00" || list[0].SubjectName != "Math" {
		t.Errorf("列表错误: %+v", list)
	}

	if err := env.svc.Slot.Delete(ctx, "s1", "admin-1"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if err := env.svc.Slot.Delete(ctx, "s1", "admin-1"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("重复删除应返回 ErrSlotNotFound，实际=%v", err)
	}
}

// ── ImportICS 测试 ──

const sampleSlotICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Emploi du temps//FR
BEGIN:VEVENT
UID:evt-1
DTSTART:20250303T090000Z
DTEND:20250303T103000Z
RRULE:FREQ=WEEKLY;BYDAY=MO
SUMMARY:math
LOCATION:B12
END:VEVENT
BEGIN:VEVENT
UID:evt-2
DTSTART:20250310T090000Z
DTEND:20250310T103000Z
RRULE:FREQ=WEEKLY;BYDAY=MO
SUMMARY:math
LOCATION:B12
END:VEVENT
BEGIN:VEVENT
UID:evt-3
DTSTART:20250306T130000Z
DTEND:20250306T150000Z
RRULE:FREQ=WEEKLY;COUNT=10
SUMMARY:Chimie
END:VEVENT
BEGIN:VEVENT
UID:evt-4
DTSTART:20250307T080000Z
DTEND:20250307T100000Z
SUMMARY:Physique
END:VEVENT
BEGIN:VEVENT
UID:evt-5
DTSTART:20250307T080000Z
DTEND:20250307T100000Z
RRULE:FREQ=DAILY
SUMMARY:Math
END:VEVENT
END:VCALENDAR
`

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func TestParseSlotICS(t *testing.T) {
	slots, skipped, err := ParseSlotICS(strings.NewReader(crlf(sampleSlotICS)), time.UTC)
	if err != nil {
		t.Fatalf("ParseSlotICS 应成功: %v", err)
	}
	// evt-1 与 evt-2 合并；evt-4 无 RRULE、evt-5 非每周被跳过
	if len(slots) != 2 {
		t.Fatalf("期望 2 个时段，实际=%d", len(slots))
	}
	if slots[0].DayOfWeek != 1 || slots[0].Start.String() != "09:00" || slots[0].End.String() != "10:30" || slots[0].Room != "B12" {
		t.Errorf("周一时段错误: %+v", slots[0])
	}
	if slots[1].DayOfWeek != 4 || slots[1].Start.String() != "13:00" || slots[1].Summary != "Chimie" {
		t.Errorf("周四时段错误: %+v", slots[1])
	}
	if len(skipped) != 2 || skipped[0] != "Physique" || skipped[1] != "Math" {
		t.Errorf("跳过列表错误: %v", skipped)
	}
}

func TestParseSlotICS_TZID(t *testing.T) {
	if _, err := time.LoadLocation("Europe/Paris"); err != nil {
		t.Skip("缺少时区数据")
	}
	body := crlf(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Emploi du temps//FR
BEGIN:VEVENT
UID:evt-tz
DTSTART;TZID=Europe/Paris:20250306T140000
DTEND;TZID=Europe/Paris:20250306T160000
RRULE:FREQ=WEEKLY
SUMMARY:Chimie
END:VEVENT
END:VCALENDAR
`)
	slots, _, err := ParseSlotICS(strings.NewReader(body), time.UTC)
	if err != nil {
		t.Fatalf("ParseSlotICS 应成功: %v", err)
	}
	// Paris 14:00 (UTC+1) → UTC 13:00
	if len(slots) != 1 || slots[0].Start.String() != "13:00" || slots[0].End.String() != "15:00" {
		t.Errorf("TZID 换算错误: %+v", slots)
	}
}

func TestSlotService_ImportICS(t *testing.T) {
	env := setupTestEnv(t, testNow)
	ctx := context.Background()
	_ = env.subjects.Create(ctx, mathSubject)
	_ = env.subjects.Create(ctx, physicsSubject)
	_ = env.slots.Create(ctx, &model.RecurringSlot{RecurringSlotID: "old", ClassID: testClassA, DayOfWeek: 2, StartTime: "08:00", EndTime: "09:00"})
	_ = env.slots.Create(ctx, &model.RecurringSlot{RecurringSlotID: "other", ClassID: testClassB, DayOfWeek: 2, StartTime: "08:00", EndTime: "09:00"})

	resp, err := env.svc.Slot.ImportICS(ctx, testClassA, strings.NewReader(crlf(sampleSlotICS)), "admin-1")
	if err != nil {
		t.Fatalf("ImportICS 应成功: %v", err)
	}
	if resp.Imported != 1 {
		t.Errorf("期望导入 1 个时段，实际=%d", resp.Imported)
	}
	// 解析阶段跳过 Physique、Math(DAILY)，科目匹配阶段跳过 Chimie
	if len(resp.Skipped) != 3 || resp.Skipped[2] != "Chimie" {
		t.Errorf("跳过列表错误: %v", resp.Skipped)
	}

	if _, ok := env.slots.slots["old"]; ok {
		t.Error("班级原有时段应被替换")
	}
	if _, ok := env.slots.slots["other"]; !ok {
		t.Error("其他班级时段不应受影响")
	}
	remaining, _ := env.slots.ListByClass(ctx, testClassA)
	if len(remaining) != 1 || remaining[0].SubjectID != mathSubject.SubjectID || remaining[0].StartTime != "09:00" {
		t.Errorf("导入结果错误: %+v", remaining)
	}
}

func TestSlotService_ImportICS_Invalid(t *testing.T) {
	env := setupTestEnv(t, testNow)

	_, err := env.svc.Slot.ImportICS(context.Background(), testClassA, strings.NewReader("not a calendar"), "admin-1")
	if !errors.Is(err, ErrSlotICSInvalid) {
		t.Errorf("期望 ErrSlotICSInvalid，实际=%v", err)
	}
}
