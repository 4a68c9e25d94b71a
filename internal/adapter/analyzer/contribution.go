package analyzer

import "github-portfolio/internal/domain"

// 以下函数都是纯函数：只读日历，不修改、不重排

// TotalContributions 所有天的贡献数之和
func TotalContributions(cal *domain.ContributionCalendar) int {
	if cal == nil {
		return 0
	}
	total := 0
	for _, week := range cal.Weeks {
		for _, day := range week.Days {
			total += day.Count
		}
	}
	return total
}

// LongestStreak 按时间顺序扫描，最长的连续 count > 0 天数
func LongestStreak(cal *domain.ContributionCalendar) int {
	longest, run := 0, 0
	for _, day := range cal.Days() {
		if day.Count > 0 {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	return longest
}

// CurrentStreak 从最后一天往前数，直到遇到第一个 count == 0 的天
//
// 最后一天 (通常是今天) 为 0 时直接返回 0，不给"今天还没提交"留宽限。
func CurrentStreak(cal *domain.ContributionCalendar) int {
	days := cal.Days()
	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Count <= 0 {
			break
		}
		streak++
	}
	return streak
}

// DeriveMetrics 一次性计算全部指标
func DeriveMetrics(cal *domain.ContributionCalendar) domain.ContributionMetrics {
	return domain.ContributionMetrics{
		Total:         TotalContributions(cal),
		CurrentStreak: CurrentStreak(cal),
		LongestStreak: LongestStreak(cal),
	}
}
