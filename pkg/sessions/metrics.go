package sessions

import (
	"fmt"
	"math"
	"time"

	"github.com/conexia/flowlens/pkg/models"
)

// Metrics summarizes conversation volume for one calendar month.
type Metrics struct {
	TotalMessages                  int     `json:"totalMessages"`
	AverageMessagesPerConversation float64 `json:"averageMessagesPerConversation"`
}

// MonthlyMetrics computes message totals over the sessions whose last
// activity falls inside the given month ("2006-01" format). The average is
// rounded to one decimal.
func MonthlyMetrics(sessions []*models.ChatSession, month string) (Metrics, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return Metrics{}, fmt.Errorf("invalid month %q: %w", month, err)
	}

	end := start.AddDate(0, 1, 0)

	totalMessages := 0
	matched := 0

	for _, session := range sessions {
		if session.LastActivity.Before(start) || !session.LastActivity.Before(end) {
			continue
		}

		matched++
		totalMessages += len(session.Conversation)
	}

	if matched == 0 {
		return Metrics{}, nil
	}

	average := float64(totalMessages) / float64(matched)

	return Metrics{
		TotalMessages:                  totalMessages,
		AverageMessagesPerConversation: math.Round(average*10) / 10,
	}, nil
}
