package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"formation-hub/backend/internal/calendar"
	"formation-hub/backend/internal/dto"
	"formation-hub/backend/internal/model"
	"formation-hub/backend/internal/repository"
)

// ── 周期时段模块业务错误 ──

var (
	ErrSlotNotFound        = errors.New("周期时段不存在")
	ErrSlotInvalidInterval = errors.New("时段开始时间必须早于结束时间")
	ErrSlotSubjectNotFound = errors.New("科目不存在")
	ErrSlotICSInvalid      = errors.New("ICS 文件无法解析")
)

// SlotService 周期时段管理接口（管理员）
type SlotService interface {
	List(ctx context.Context, classID string) ([]dto.SlotResponse, error)
	Create(ctx context.Context, req *dto.CreateSlotRequest, callerID string) (*dto.SlotResponse, error)
	Delete(ctx context.Context, id, callerID string) error
	// ImportICS 以 ICS 文件全量替换班级的周期时段
	ImportICS(ctx context.Context, classID string, reader io.Reader, callerID string) (*dto.ImportSlotsResponse, error)
}

type slotService struct {
	repo   *repository.Repository
	tools  *calendarTools
	logger *zap.Logger
}

// NewSlotService 创建 SlotService 实例
func NewSlotService(repo *repository.Repository, tools *calendarTools, logger *zap.Logger) SlotService {
	return &slotService{repo: repo, tools: tools, logger: logger}
}

func (s *slotService) List(ctx context.Context, classID string) ([]dto.SlotResponse, error) {
	slots, err := s.repo.RecurringSlot.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("查询周期时段失败", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, toSlotResponse(&slots[i]))
	}
	return out, nil
}

func (s *slotService) Create(ctx context.Context, req *dto.CreateSlotRequest, callerID string) (*dto.SlotResponse, error) {
	start, err := calendar.ParseClockTime(req.StartTime)
	if err != nil {
		return nil, ErrSlotInvalidInterval
	}
	end, err := calendar.ParseClockTime(req.EndTime)
	if err != nil {
		return nil, ErrSlotInvalidInterval
	}
	candidate := calendar.Slot{DayOfWeek: req.DayOfWeek, Start: start, End: end}
	if err := candidate.Validate(); err != nil {
		return nil, ErrSlotInvalidInterval
	}

	if _, err := s.repo.Subject.GetByID(ctx, req.SubjectID); err != nil {
		if isNotFound(err) {
			return nil, ErrSlotSubjectNotFound
		}
		return nil, err
	}

	slot := &model.RecurringSlot{
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		DayOfWeek: req.DayOfWeek,
		StartTime: start.String(),
		EndTime:   end.String(),
		Room:      strings.TrimSpace(req.Room),
	}
	slot.CreatedBy = &callerID
	slot.UpdatedBy = &callerID
	if err := s.repo.RecurringSlot.Create(ctx, slot); err != nil {
		s.logger.Error("创建周期时段失败", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.RecurringSlot.GetByID(ctx, slot.RecurringSlotID)
	if err != nil {
		created = slot
	}
	resp := toSlotResponse(created)
	return &resp, nil
}

func (s *slotService) Delete(ctx context.Context, id, callerID string) error {
	if err := s.repo.RecurringSlot.Delete(ctx, id, callerID); err != nil {
		if isNotFound(err) {
			return ErrSlotNotFound
		}
		s.logger.Error("删除周期时段失败", zap.String("slot_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *slotService) ImportICS(ctx context.Context, classID string, reader io.Reader, callerID string) (*dto.ImportSlotsResponse, error) {
	parsed, skipped, err := ParseSlotICS(reader, s.tools.loc)
	if err != nil {
		s.logger.Warn("ICS 解析失败", zap.Error(err))
		return nil, ErrSlotICSInvalid
	}

	names := make([]string, 0, len(parsed))
	for _, p := range parsed {
		names = append(names, p.Summary)
	}
	subjects, err := s.repo.Subject.ListByNames(ctx, names)
	if err != nil {
		s.logger.Error("查询科目失败", zap.Error(err))
		return nil, err
	}
	subjectIDs := make(map[string]string, len(subjects))
	for _, sub := range subjects {
		subjectIDs[strings.ToLower(sub.Name)] = sub.SubjectID
	}

	slots := make([]model.RecurringSlot, 0, len(parsed))
	for _, p := range parsed {
		subjectID, ok := subjectIDs[strings.ToLower(p.Summary)]
		if !ok {
			skipped = append(skipped, p.Summary)
			continue
		}
		slot := model.RecurringSlot{
			ClassID:   classID,
			SubjectID: subjectID,
			DayOfWeek: p.DayOfWeek,
			StartTime: p.Start.String(),
			EndTime:   p.End.String(),
			Room:      p.Room,
		}
		slot.CreatedBy = &callerID
		slot.UpdatedBy = &callerID
		slots = append(slots, slot)
	}

	if err := s.repo.RecurringSlot.ReplaceByClass(ctx, classID, slots); err != nil {
		s.logger.Error("导入周期时段失败", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("ICS 时段导入完成",
		zap.String("class_id", classID),
		zap.Int("imported", len(slots)),
		zap.Int("skipped", len(skipped)),
	)
	if skipped == nil {
		skipped = []string{}
	}
	return &dto.ImportSlotsResponse{Imported: len(slots), Skipped: skipped}, nil
}
