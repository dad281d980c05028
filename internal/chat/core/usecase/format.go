package usecase

import (
	"fmt"
	"strings"

	"chat-ranking-service/internal/chat/core/domain"
	rankdomain "chat-ranking-service/internal/ranking/core/domain"
)

const (
	textNoGroupData   = "📊 No ranking data yet."
	textNoRank        = "📉 You have no ranking yet."
	textRankingGroups = "❌ Ranking works only in groups."
	textCommandGroups = "❌ This command works only in groups."
	textUnavailable   = "⚠️ Ranking is temporarily unavailable."
	unknownGroupName  = "Unknown"
)

var medals = [...]string{"🥇", "🥈", "🥉"}

func textNoModeData(mode rankdomain.Mode) string {
	return fmt.Sprintf("📉 No %s data yet.", mode)
}

func position(i int) string {
	if i < len(medals) {
		return medals[i]
	}
	return fmt.Sprintf("%d.", i+1)
}

// formatLeaderboard renders a board as the chat reply text and the IDs it
// mentions.
func formatLeaderboard(board *rankdomain.Leaderboard, groupName string) (string, []string) {
	if groupName == "" {
		groupName = unknownGroupName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 *%s CHAT RANKING*\n", strings.ToUpper(string(board.Mode)))
	fmt.Fprintf(&b, "_Group: %s_\n\n", groupName)

	mentions := make([]string, 0, len(board.Entries))
	for i, e := range board.Entries {
		mentions = append(mentions, e.UserID)
		fmt.Fprintf(&b, "%s @%s : *%d*\n", position(i), domain.MentionName(e.UserID), e.Count)
	}
	fmt.Fprintf(&b, "\n_Total active users: %d_", board.Total)

	return b.String(), mentions
}

func formatRankCard(r *rankdomain.UserRank) string {
	return fmt.Sprintf("👤 *YOUR RANK*\n🏆 Rank: #%d / %d\n🌐 Global: %d\n📅 Daily: %d\n🗓️ Weekly: %d",
		r.Rank, r.Total, r.Global, r.Daily, r.Weekly)
}
