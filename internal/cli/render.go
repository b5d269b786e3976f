package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cleanstreak/internal/models"
)

// ShortID is the id prefix shown in listings and accepted by FindHabit
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// RenderHabitLine is the one-line summary used by habit list
func RenderHabitLine(h models.Habit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", MutedStyle.Render(ShortID(h.ID)), h.Category.Icon(), h.Name)
	fmt.Fprintf(&b, "  🔥 %s", days(h.CurrentStreak))
	fmt.Fprintf(&b, " %s", MutedStyle.Render(fmt.Sprintf("(best %d)", h.LongestStreak)))
	if !h.Active {
		b.WriteString(" " + WarningStyle.Render("[archived]"))
	}
	return b.String()
}

func RenderHabitStats(st models.HabitStatistics) string {
	h := st.Habit
	lines := []string{
		TitleStyle.Render(fmt.Sprintf("%s %s", h.Category.Icon(), h.Name)),
		MutedStyle.Render(fmt.Sprintf("%s · since %s", h.Category.DisplayName(), h.StartDate)),
		"",
		row("Current streak", days(st.CurrentStreak)),
		row("Longest streak", days(st.LongestStreak)),
		row("Success rate", fmt.Sprintf("%.1f%%", st.SuccessRate)),
		row("Days tracked", fmt.Sprintf("%d (%d ✓ / %d ✗)", st.TotalDays, st.SuccessfulDays, st.FailedDays)),
	}
	if h.DailyCost != nil {
		lines = append(lines, row("Money saved", fmt.Sprintf("$%.2f", st.MoneySaved)))
	}
	if st.ProgressPercentage != nil && st.DaysRemaining != nil {
		lines = append(lines, row("Goal", fmt.Sprintf("%d%% · %s to go", *st.ProgressPercentage, days(*st.DaysRemaining))))
	}
	if st.AverageMood != nil {
		lines = append(lines, row("Average mood", fmt.Sprintf("%.1f / 5", *st.AverageMood)))
	}
	if len(st.RecentEntries) > 0 {
		lines = append(lines, "", MutedStyle.Render("Recent"))
		for _, e := range st.RecentEntries {
			lines = append(lines, RenderEntry(e))
		}
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func RenderEntry(e models.HabitEntry) string {
	mark := SuccessStyle.Render("✓")
	if !e.Successful {
		mark = WarningStyle.Render("✗")
	}
	line := fmt.Sprintf("  %s %s", e.Day, mark)
	if e.Mood != nil {
		line += MutedStyle.Render(" mood: " + e.Mood.String())
	}
	if e.Note != "" {
		line += MutedStyle.Render(" · " + e.Note)
	}
	return line
}

func RenderDashboard(d models.DashboardStatistics, name string) string {
	lines := []string{
		TitleStyle.Render(fmt.Sprintf("Hi %s, here is your progress", name)),
		"",
		row("Active habits", fmt.Sprintf("%d", d.TotalActiveHabits)),
		row("Archived habits", fmt.Sprintf("%d", d.TotalInactiveHabits)),
		row("Days tracked", fmt.Sprintf("%d", d.TotalDaysTracked)),
		row("Clean days", fmt.Sprintf("%d", d.TotalSuccessfulDays)),
		row("Success rate", fmt.Sprintf("%.1f%%", d.AverageSuccessRate)),
		row("Longest streak", days(d.LongestStreakEver)),
		row("Money saved", fmt.Sprintf("$%.2f", d.TotalMoneySaved)),
		row("Achievements", fmt.Sprintf("%d", d.TotalAchievements)),
	}
	if d.UnviewedAchievements > 0 {
		lines = append(lines, "", badgeStyle.Render(fmt.Sprintf("%d new achievement(s)", d.UnviewedAchievements)))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func RenderAchievement(a models.Achievement) string {
	line := fmt.Sprintf("🏆 %s: %s %s", TitleStyle.Render(a.Title), a.Description,
		MutedStyle.Render(a.UnlockedAt.Local().Format("2006-01-02")))
	if !a.Viewed {
		line += " " + badgeStyle.Render("NEW")
	}
	return line
}

// PrintUnlocked announces freshly unlocked achievements
func PrintUnlocked(unlocked []models.Achievement) {
	for _, a := range unlocked {
		fmt.Println(SuccessStyle.Render("🎉 Achievement unlocked! ") + TitleStyle.Render(a.Title) + ": " + a.Description)
	}
}
