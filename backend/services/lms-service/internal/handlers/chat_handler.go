package handlers

import (
	"context"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/models"
	"github.com/gofiber/fiber/v2"
)

type ChatService interface {
	GetOrCreate(ctx context.Context, idA, variantA, idB, variantB string) (*models.ConversationView, error)
	PostMessage(ctx context.Context, conversationID, senderID, senderVariant, text string) (*models.ConversationView, error)
	GetConversation(ctx context.Context, conversationID string) (*models.ConversationView, error)
	ListConversationsFor(ctx context.Context, identityID string) ([]models.ConversationView, error)
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type getOrCreateReq struct {
	IDA      string `json:"idA"`
	VariantA string `json:"variantA"`
	IDB      string `json:"idB"`
	VariantB string `json:"variantB"`
}

type sendReq struct {
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	SenderVariant  string `json:"senderVariant"`
	Text           string `json:"text"`
}

// GetOrCreate handles POST /chat/get-or-create
func (h *ChatHandler) GetOrCreate(c *fiber.Ctx) error {
	var req getOrCreateReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	conv, err := h.svc.GetOrCreate(c.UserContext(), req.IDA, req.VariantA, req.IDB, req.VariantB)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(conv)
}

// Send handles POST /chat/send
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req sendReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	conv, err := h.svc.PostMessage(c.UserContext(), req.ConversationID, req.SenderID, req.SenderVariant, req.Text)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(conv)
}

// Get handles GET /chat/chat/:chatId
func (h *ChatHandler) Get(c *fiber.Ctx) error {
	conv, err := h.svc.GetConversation(c.UserContext(), c.Params("chatId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(conv)
}

// List handles GET /chat/:identityId
func (h *ChatHandler) List(c *fiber.Ctx) error {
	convs, err := h.svc.ListConversationsFor(c.UserContext(), c.Params("identityId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(convs)
}
