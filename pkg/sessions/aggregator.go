// Package sessions groups enriched executions into ordered chat session
// timelines.
package sessions

import (
	"sort"

	"github.com/conexia/flowlens/pkg/models"
)

// Aggregate partitions a batch of enriched executions by session identifier
// and rebuilds every session from scratch: member lists, conversation turns,
// last activity and lead captures. The whole batch is processed in one pass;
// ties in any sort key keep their relative input order.
func Aggregate(executions []*models.Execution) *models.GroupedExecutions {
	byID := make(map[string]*models.ChatSession)
	ordered := make([]*models.ChatSession, 0)
	ungrouped := make([]*models.Execution, 0)

	for _, execution := range executions {
		if execution.SessionID == nil || *execution.SessionID == "" {
			ungrouped = append(ungrouped, execution)

			continue
		}

		sessionID := *execution.SessionID

		session, ok := byID[sessionID]
		if !ok {
			session = &models.ChatSession{
				SessionID:    sessionID,
				Executions:   []*models.Execution{},
				Conversation: []models.ConversationMessage{},
				LastActivity: execution.StartedAt,
				Status:       models.SessionStatusInactive,
			}
			byID[sessionID] = session
			ordered = append(ordered, session)
		}

		session.Executions = append(session.Executions, execution)
		session.TotalExecutions++
		session.Conversation = append(session.Conversation, messagesFor(execution)...)

		if execution.StartedAt.After(session.LastActivity) {
			session.LastActivity = execution.StartedAt
		}

		// Sticky: one in-flight member marks the session active for the
		// whole pass, regardless of later terminal members.
		if execution.Status.Active() {
			session.Status = models.SessionStatusActive
		}

		if execution.LeadUsed {
			session.HasLeadTool = true
			session.LeadExecutions = append(session.LeadExecutions, execution)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].LastActivity.After(ordered[j].LastActivity)
	})

	for _, session := range ordered {
		sortSession(session)
	}

	return &models.GroupedExecutions{
		Sessions:            ordered,
		UngroupedExecutions: ungrouped,
		TotalExecutions:     len(executions),
	}
}

// messagesFor derives the zero, one or two conversation turns carried by
// one execution. The ai turn is stamped with stoppedAt when the execution
// finished, else startedAt.
func messagesFor(execution *models.Execution) []models.ConversationMessage {
	messages := make([]models.ConversationMessage, 0, 2)

	if execution.ChatInput != nil && *execution.ChatInput != "" {
		messages = append(messages, models.ConversationMessage{
			Type:        models.MessageTypeUser,
			Content:     *execution.ChatInput,
			Timestamp:   execution.StartedAt,
			ExecutionID: execution.ID,
		})
	}

	if execution.AIResponse != nil && *execution.AIResponse != "" {
		timestamp := execution.StartedAt
		if execution.StoppedAt != nil {
			timestamp = *execution.StoppedAt
		}

		messages = append(messages, models.ConversationMessage{
			Type:        models.MessageTypeAI,
			Content:     *execution.AIResponse,
			Timestamp:   timestamp,
			ExecutionID: execution.ID,
		})
	}

	return messages
}

// sortSession orders members and conversation turns chronologically. The
// two sorts are independent; neither is guaranteed to match attachment
// order.
func sortSession(session *models.ChatSession) {
	sort.SliceStable(session.Executions, func(i, j int) bool {
		return session.Executions[i].StartedAt.Before(session.Executions[j].StartedAt)
	})

	sort.SliceStable(session.Conversation, func(i, j int) bool {
		return session.Conversation[i].Timestamp.Before(session.Conversation[j].Timestamp)
	})
}
