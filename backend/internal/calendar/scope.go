package calendar

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrInvalidRange 区间结束早于开始
	ErrInvalidRange = errors.New("日期区间无效：结束早于开始")
	// ErrScopeViolation 请求的班级不在调用方选课范围内
	ErrScopeViolation = errors.New("请求的班级不在选课范围内")
)

// Scope 选课范围：调用方有权查看的班级 ID 集合
type Scope map[string]struct{}

// NewScope 由班级 ID 列表构建范围，空字符串被忽略
func NewScope(classIDs ...string) Scope {
	s := make(Scope, len(classIDs))
	for _, id := range classIDs {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Contains 班级是否在范围内
func (s Scope) Contains(classID string) bool {
	_, ok := s[classID]
	return ok
}

// ClassIDs 返回排序后的班级 ID
func (s Scope) ClassIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Narrow 收窄到单个班级；班级不在范围内时返回 ErrScopeViolation
func (s Scope) Narrow(classID string) (Scope, error) {
	if classID == "" {
		return s, nil
	}
	if !s.Contains(classID) {
		return nil, ErrScopeViolation
	}
	return NewScope(classID), nil
}

// Range 闭区间 [Start, End]
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange 构建闭区间，End 早于 Start 时返回 ErrInvalidRange
func NewRange(start, end time.Time) (Range, error) {
	if end.Before(start) {
		return Range{}, ErrInvalidRange
	}
	return Range{Start: start, End: end}, nil
}

// Contains t 是否落在闭区间内
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// DaysRange 从 from 当天 0 点到 from+days-1 天结束的闭区间
func DaysRange(from time.Time, days int) Range {
	start := StartOfDay(from)
	return Range{Start: start, End: EndOfDay(start.AddDate(0, 0, days-1))}
}
