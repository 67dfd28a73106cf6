package clock

import "time"

// Clock 当前时间来源。所有需要"现在"的入口都通过注入的 Clock 获取，便于测试。
type Clock interface {
	Now() time.Time
}

// Real 系统时钟
type Real struct{}

// Now 返回系统当前时间
func (Real) Now() time.Time { return time.Now() }

// Fixed 固定时钟，始终返回同一时刻
type Fixed time.Time

// Now 返回固定时刻
func (f Fixed) Now() time.Time { return time.Time(f) }
