// Package conversations derives per-counterparty conversation summaries from a
// flat message log. The derivation is a pure function over message records so
// it stays independent of the store's query language; for larger datasets the
// same contract could be pushed down into SQL without touching callers.
package conversations

import (
	"sort"

	"exchange-campus/internal/models"
)

// Summary describes one conversation from the viewing user's perspective.
type Summary struct {
	CounterpartyID int
	LastMessage    models.Message
	UnreadCount    int
}

// Derive groups the viewer's messages by counterparty and annotates each group
// with its most recent message and the number of unread messages addressed to
// the viewer. The result is ordered by last-message recency, newest first.
//
// Messages the viewer sent never count toward their own unread total. Equal
// timestamps are broken by highest id, so the last inserted message wins.
func Derive(viewerID int, msgs []models.Message) []Summary {
	byCounterparty := make(map[int]*Summary)
	for _, msg := range msgs {
		counterparty := msg.SenderID
		if msg.SenderID == viewerID {
			counterparty = msg.ReceiverID
		}

		sum, ok := byCounterparty[counterparty]
		if !ok {
			sum = &Summary{CounterpartyID: counterparty, LastMessage: msg}
			byCounterparty[counterparty] = sum
		} else if newerThan(msg, sum.LastMessage) {
			sum.LastMessage = msg
		}

		if msg.ReceiverID == viewerID && !msg.IsRead {
			sum.UnreadCount++
		}
	}

	result := make([]Summary, 0, len(byCounterparty))
	for _, sum := range byCounterparty {
		result = append(result, *sum)
	}
	sort.Slice(result, func(i, j int) bool {
		return newerThan(result[i].LastMessage, result[j].LastMessage)
	})
	return result
}

func newerThan(a, b models.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
