package chat

import (
	"context"

	"fleamarket/internal/model"
	"fleamarket/internal/repository"
	"fleamarket/pkg/utils"
)

// ChatService chat service interface
type ChatService interface {
	// AddContact adds a peer to the user's contact list
	AddContact(ctx context.Context, userID, peerID uint64, goodsID *uint64) (*model.Contact, error)

	// ListContacts lists the user's contacts
	ListContacts(ctx context.Context, userID uint64) ([]*model.Contact, error)

	// RemoveContact removes a peer from the user's contact list
	RemoveContact(ctx context.Context, userID, peerID uint64) error

	// SendMessage sends a message to a peer
	SendMessage(ctx context.Context, senderID, receiverID uint64, content string) (*model.ChatMessage, error)

	// ListMessages lists the conversation with a peer and marks the
	// peer's messages read
	ListMessages(ctx context.Context, userID, peerID uint64, page, pageSize int) ([]*model.ChatMessage, int64, error)

	// UnreadCount counts unread messages addressed to the user
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
}

// chatService chat service implementation
type chatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
}

// NewChatService creates a chat service
func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
	}
}

// AddContact adds a peer to the user's contact list
func (s *chatService) AddContact(ctx context.Context, userID, peerID uint64, goodsID *uint64) (*model.Contact, error) {
	if userID == peerID {
		return nil, utils.ErrContactSelf
	}

	if _, err := s.userRepo.GetByID(ctx, peerID); err != nil {
		return nil, err
	}

	existing, err := s.chatRepo.GetContact(ctx, userID, peerID)
	if err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to check contact")
	}
	if existing != nil {
		return nil, utils.ErrContactExists
	}

	contact := &model.Contact{
		UserID:  userID,
		PeerID:  peerID,
		GoodsID: goodsID,
	}
	if err := s.chatRepo.CreateContact(ctx, contact); err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to add contact")
	}
	return contact, nil
}

// ListContacts lists the user's contacts
func (s *chatService) ListContacts(ctx context.Context, userID uint64) ([]*model.Contact, error) {
	return s.chatRepo.ListContacts(ctx, userID)
}

// RemoveContact removes a peer from the user's contact list
func (s *chatService) RemoveContact(ctx context.Context, userID, peerID uint64) error {
	return s.chatRepo.DeleteContact(ctx, userID, peerID)
}

// SendMessage sends a message to a peer. The contact relation is
// created on first message in both directions.
func (s *chatService) SendMessage(ctx context.Context, senderID, receiverID uint64, content string) (*model.ChatMessage, error) {
	if senderID == receiverID {
		return nil, utils.ErrContactSelf
	}
	if content == "" {
		return nil, utils.NewError(utils.CodeInvalidParam, "empty message")
	}

	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to send message")
	}

	s.ensureContact(ctx, senderID, receiverID)
	s.ensureContact(ctx, receiverID, senderID)

	return msg, nil
}

// ensureContact creates the contact relation if missing
func (s *chatService) ensureContact(ctx context.Context, userID, peerID uint64) {
	existing, err := s.chatRepo.GetContact(ctx, userID, peerID)
	if err != nil || existing != nil {
		return
	}
	_ = s.chatRepo.CreateContact(ctx, &model.Contact{UserID: userID, PeerID: peerID})
}

// ListMessages lists the conversation with a peer and marks the peer's
// messages read
func (s *chatService) ListMessages(ctx context.Context, userID, peerID uint64, page, pageSize int) ([]*model.ChatMessage, int64, error) {
	messages, total, err := s.chatRepo.ListMessages(ctx, userID, peerID, page, pageSize)
	if err != nil {
		return nil, 0, utils.WrapError(err, utils.CodeDatabaseError, "failed to list messages")
	}

	if err := s.chatRepo.MarkMessagesRead(ctx, userID, peerID); err != nil {
		return nil, 0, utils.WrapError(err, utils.CodeDatabaseError, "failed to mark messages read")
	}

	return messages, total, nil
}

// UnreadCount counts unread messages addressed to the user
func (s *chatService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.chatRepo.CountUnread(ctx, userID)
}
