package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"formation-hub/backend/internal/calendar"
	"formation-hub/backend/internal/dto"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// 打印视图类型
const (
	PrintTypeWeek  = "week"
	PrintTypeMonth = "month"
)

// ExportService 打印导出接口
//
// 设计说明：
//   - 打印视图与周/月视图共用分组结果，导出为 Excel (.xlsx)
//   - 以 bytes.Buffer 返回，由 Handler 层设置下载响应头
//   - 每行一个条目：日期 | 星期 | 时间 | 科目 | 标题 | 教师 | 教室 | 状态，无条目的日期保留一行 "-"
type ExportService interface {
	ExportPrint(ctx context.Context, studentID string, req *dto.PrintRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	loader *occurrenceLoader
	tools  *calendarTools
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(loader *occurrenceLoader, logger *zap.Logger) ExportService {
	return &exportService{loader: loader, tools: loader.tools, logger: logger}
}

type printLabels struct {
	title      string
	headers    []string
	assignment string
	statuses   map[calendar.Status]string
}

var printLabelsByLocale = map[string]printLabels{
	"fr": {
		title:      "Emploi du temps",
		headers:    []string{"Date", "Jour", "Horaire", "Matière", "Intitulé", "Enseignant", "Salle", "Statut"},
		assignment: "Devoir à rendre",
		statuses: map[calendar.Status]string{
			calendar.StatusScheduled: "Planifié",
			calendar.StatusLive:      "En cours",
			calendar.StatusCompleted: "Terminé",
			calendar.StatusCancelled: "Annulé",
		},
	},
	"en": {
		title:      "Timetable",
		headers:    []string{"Date", "Day", "Time", "Subject", "Title", "Teacher", "Room", "Status"},
		assignment: "Assignment due",
		statuses: map[calendar.Status]string{
			calendar.StatusScheduled: "Scheduled",
			calendar.StatusLive:      "Live",
			calendar.StatusCompleted: "Completed",
			calendar.StatusCancelled: "Cancelled",
		},
	},
}

// NormalizePrintType 未知类型按周处理
func NormalizePrintType(t string) string {
	if t == PrintTypeMonth {
		return PrintTypeMonth
	}
	return PrintTypeWeek
}

// ═══════════════════════════════════════════════════════════
// ExportPrint — 导出周/月打印视图
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportPrint(ctx context.Context, studentID string, req *dto.PrintRequest) (*bytes.Buffer, string, error) {
	loc := s.tools.loc
	now := s.tools.now()
	printType := NormalizePrintType(req.Type)

	// 1. 确定区间
	var (
		rng    calendar.Range
		period string
	)
	if printType == PrintTypeMonth {
		anchor := calendar.ParseMonth(req.Date, loc, now)
		rng = s.tools.agg.MonthRange(anchor)
		period = anchor.Format("2006-01")
	} else {
		anchor := calendar.ParseDate(req.Date, loc, now)
		rng = s.tools.agg.WeekRange(anchor)
		period = calendar.FormatDate(rng.Start)
	}

	// 2. 查询并分组
	scope, err := s.loader.scope(ctx, studentID, "")
	if err != nil {
		return nil, "", err
	}
	occs, dues, err := s.loader.load(ctx, scope, rng)
	if err != nil {
		return nil, "", err
	}
	var buckets []calendar.DayBucket
	if printType == PrintTypeMonth {
		buckets = s.tools.agg.Month(rng.Start, occs, dues).Days
	} else {
		buckets = s.tools.agg.Week(rng.Start, occs, dues).Days
	}

	// 3. 生成 Excel
	labels, ok := printLabelsByLocale[s.tools.locale]
	if !ok {
		labels = printLabelsByLocale["fr"]
	}
	buf, err := s.renderWorkbook(buckets, labels, period)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("schedule_%s_%s.xlsx", printType, period)
	return buf, filename, nil
}

func (s *exportService) renderWorkbook(buckets []calendar.DayBucket, labels printLabels, period string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := labels.title
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	widths := []float64{12, 12, 14, 20, 30, 20, 10, 12}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	statusStyles := make(map[string]int)
	styleFor := func(color string) int {
		if id, ok := statusStyles[color]; ok {
			return id
		}
		id, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: color},
		})
		statusStyles[color] = id
		return id
	}

	// 标题行
	last := colName(len(labels.headers) - 1)
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s - %s", labels.title, period))
	f.MergeCell(sheetName, "A1", cell(last, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	for i, h := range labels.headers {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(last, row), headerStyle)

	// 数据行
	row = 3
	for _, b := range buckets {
		date := calendar.FormatDate(b.Date)
		if len(b.Occurrences) == 0 && len(b.Assignments) == 0 {
			f.SetCellValue(sheetName, cell("A", row), date)
			f.SetCellValue(sheetName, cell("B", row), b.DayName)
			f.SetCellValue(sheetName, cell("C", row), "-")
			row++
			continue
		}
		for _, o := range b.Occurrences {
			start := o.ScheduledAt.In(s.tools.loc)
			end := o.EndAt().In(s.tools.loc)
			status := labels.statuses[o.Status]
			if status == "" {
				status = string(o.Status)
			}
			values := []interface{}{
				date, b.DayName,
				fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04")),
				o.SubjectName, o.Title, o.TeacherName, o.Room, status,
			}
			for i, v := range values {
				f.SetCellValue(sheetName, cell(colName(i), row), v)
			}
			statusCell := cell(last, row)
			f.SetCellStyle(sheetName, statusCell, statusCell, styleFor(o.Status.Color()))
			row++
		}
		for _, d := range b.Assignments {
			values := []interface{}{
				date, b.DayName, d.DueDate.In(s.tools.loc).Format("15:04"),
				d.SubjectName, d.Title, "", "", labels.assignment,
			}
			for i, v := range values {
				f.SetCellValue(sheetName, cell(colName(i), row), v)
			}
			statusCell := cell(last, row)
			f.SetCellStyle(sheetName, statusCell, statusCell, styleFor(calendar.ColorAssignment))
			row++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
