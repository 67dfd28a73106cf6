package calendar

import (
	"net/url"
	"strings"
	"time"
)

// EventType 日历事件类型
type EventType string

const (
	EventTypeCourse     EventType = "course"
	EventTypeAssignment EventType = "assignment"
)

// Event 日历事件（按请求即时生成，不持久化）
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	Type        EventType  `json:"type"`
	Color       string     `json:"color"`
	URL         string     `json:"url"`
	Description string     `json:"description,omitempty"`
}

// Links 事件详情页链接前缀
type Links struct {
	CoursePath     string // 例如 /courses
	AssignmentPath string // 例如 /assignments
	DayViewPath    string // 例如 /calendar/day
}

// Projector 将课次与作业投影为日历事件。不做任何过滤。
type Projector struct {
	links Links
	loc   *time.Location
}

// NewProjector 创建投影器
func NewProjector(links Links, loc *time.Location) *Projector {
	if loc == nil {
		loc = time.UTC
	}
	return &Projector{links: links, loc: loc}
}

// Project 课程事件在前（保持 ScheduledAt 顺序），作业事件在后（保持 DueDate 顺序）
func (p *Projector) Project(occs []Occurrence, dues []AssignmentDue) []Event {
	events := make([]Event, 0, len(occs)+len(dues))
	for _, o := range occs {
		events = append(events, p.CourseEvent(o))
	}
	for _, d := range dues {
		events = append(events, p.AssignmentEvent(d))
	}
	return events
}

// CourseEvent 单个课次 → 事件
func (p *Projector) CourseEvent(o Occurrence) Event {
	end := o.EndAt()
	title := o.SubjectName
	if title == "" {
		title = o.Title
	}
	return Event{
		ID:          "course-" + o.ID,
		Title:       title,
		Start:       o.ScheduledAt,
		End:         &end,
		Type:        EventTypeCourse,
		Color:       o.Status.Color(),
		URL:         p.courseURL(o),
		Description: joinNonEmpty(" - ", o.Title, o.TeacherName, o.Room),
	}
}

// AssignmentEvent 单个作业 → 时间点事件（无 End）
func (p *Projector) AssignmentEvent(d AssignmentDue) Event {
	return Event{
		ID:          "assignment-" + d.AssignmentID,
		Title:       joinNonEmpty(" - ", d.SubjectName, d.Title),
		Start:       d.DueDate,
		Type:        EventTypeAssignment,
		Color:       ColorAssignment,
		URL:         joinPath(p.links.AssignmentPath, d.AssignmentID),
		Description: d.Title,
	}
}

// 周期时段展开的课次没有课程详情页，链接到当天日视图
func (p *Projector) courseURL(o Occurrence) string {
	if o.CourseID != "" {
		return joinPath(p.links.CoursePath, o.CourseID)
	}
	q := url.Values{"date": {FormatDate(o.ScheduledAt.In(p.loc))}}
	return p.links.DayViewPath + "?" + q.Encode()
}

func joinPath(base, id string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(id)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, sep)
}
