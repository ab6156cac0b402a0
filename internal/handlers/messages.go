package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"exchange-campus/internal/conversations"
	"exchange-campus/internal/models"
	"exchange-campus/internal/observability"
	"exchange-campus/internal/repositories"
	"exchange-campus/internal/telemetry"
)

// MessageHandler manages the messaging endpoints.
type MessageHandler struct {
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	emitter     *telemetry.EventEmitter
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, emitter *telemetry.EventEmitter) *MessageHandler {
	return &MessageHandler{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		emitter:     emitter,
	}
}

// SendMessage stores a new message and returns it with both parties' profile
// fields attached.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		ReceiverID int    `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ReceiverID <= 0 || req.Content == "" {
		fail(c, http.StatusBadRequest, "Please provide recipient ID and message content")
		return
	}

	exists, err := h.userRepo.Exists(c.Request.Context(), req.ReceiverID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	if !exists {
		fail(c, http.StatusNotFound, "Recipient not found")
		return
	}

	msg, err := h.messageRepo.Create(c.Request.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	observability.IncMessageSent()

	views, err := h.populateMessages(c, []models.Message{msg})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	h.emitter.Emit(c.Request.Context(), telemetry.KeyMessageSent, gin.H{
		"messageId":  msg.ID,
		"senderId":   msg.SenderID,
		"receiverId": msg.ReceiverID,
	}, requestIDFromContext(c), &userID)

	respond(c, http.StatusCreated, gin.H{
		"message":  "Message sent successfully",
		"messages": views,
	})
}

// ListMessages returns one page of the conversation with the given user,
// oldest first, then marks the counterparty's unread messages to the viewer
// as read. Viewing a conversation clears its unread state for the viewer only.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID := c.GetInt("userID")

	counterpartyID, err := strconv.Atoi(c.Query("userId"))
	if err != nil || counterpartyID <= 0 {
		fail(c, http.StatusBadRequest, "Please provide a valid User ID")
		return
	}

	exists, err := h.userRepo.Exists(c.Request.Context(), counterpartyID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	if !exists {
		fail(c, http.StatusNotFound, "User not found")
		return
	}

	page, limit := pageParams(c, 20)

	total, err := h.messageRepo.CountBetween(c.Request.Context(), userID, counterpartyID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	msgs, err := h.messageRepo.ListBetween(c.Request.Context(), userID, counterpartyID, page, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	marked, err := h.messageRepo.MarkRead(c.Request.Context(), userID, counterpartyID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	observability.AddMessagesMarkedRead(marked)

	views, err := h.populateMessages(c, msgs)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"messages": views,
		"total":    total,
	})
}

type conversationResponse struct {
	CounterpartyUser models.UserRef `json:"counterpartyUser"`
	LastMessage      models.Message `json:"lastMessage"`
	UnreadCount      int            `json:"unreadCount"`
}

// ListConversations returns one summary per counterparty the user has any
// messages with, most recently active first.
func (h *MessageHandler) ListConversations(c *gin.Context) {
	userID := c.GetInt("userID")

	msgs, err := h.messageRepo.ListInvolving(c.Request.Context(), userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	start := time.Now()
	summaries := conversations.Derive(userID, msgs)
	observability.ObserveConversationDerive(time.Since(start))

	counterpartyIDs := make([]int, 0, len(summaries))
	for _, sum := range summaries {
		counterpartyIDs = append(counterpartyIDs, sum.CounterpartyID)
	}
	users, err := h.userRepo.ListByIDs(c.Request.Context(), counterpartyIDs)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	refByID := make(map[int]models.UserRef, len(users))
	for _, u := range users {
		refByID[u.ID] = u.Ref()
	}

	responses := make([]conversationResponse, 0, len(summaries))
	for _, sum := range summaries {
		ref, ok := refByID[sum.CounterpartyID]
		if !ok {
			ref = models.UserRef{ID: sum.CounterpartyID}
		}
		responses = append(responses, conversationResponse{
			CounterpartyUser: ref,
			LastMessage:      sum.LastMessage,
			UnreadCount:      sum.UnreadCount,
		})
	}

	respond(c, http.StatusOK, gin.H{"conversations": responses})
}

// populateMessages attaches sender and receiver profile fields to messages.
func (h *MessageHandler) populateMessages(c *gin.Context, msgs []models.Message) ([]models.MessageView, error) {
	idSet := map[int]struct{}{}
	ids := make([]int, 0, len(msgs)*2)
	for _, m := range msgs {
		for _, id := range []int{m.SenderID, m.ReceiverID} {
			if _, ok := idSet[id]; !ok {
				idSet[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	users, err := h.userRepo.ListByIDs(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	refByID := make(map[int]models.UserRef, len(users))
	for _, u := range users {
		refByID[u.ID] = u.Ref()
	}

	views := make([]models.MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, models.MessageView{
			Message:  m,
			Sender:   refByID[m.SenderID],
			Receiver: refByID[m.ReceiverID],
		})
	}
	return views, nil
}
