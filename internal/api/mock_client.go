package api

import (
	"context"
	"sync"
	"time"

	"github.com/diogo/phonechat/internal/models"
)

// MockChatClient is a mock implementation of ChatClientInterface for testing
type MockChatClient struct {
	// Mock return values
	ReplyVal    *models.ChatReply
	SendErr     error
	EndpointVal string
	TimeoutVal  time.Duration

	// SendFunc, when set, replaces the canned values
	SendFunc func(ctx context.Context, message string) (*models.ChatReply, error)

	mu       sync.Mutex
	messages []string
}

// Ensure MockChatClient implements ChatClientInterface
var _ ChatClientInterface = (*MockChatClient)(nil)

func (m *MockChatClient) Send(ctx context.Context, message string) (*models.ChatReply, error) {
	m.mu.Lock()
	m.messages = append(m.messages, message)
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, message)
	}
	if m.SendErr != nil {
		return nil, m.SendErr
	}
	if m.ReplyVal == nil {
		return &models.ChatReply{}, nil
	}
	reply := *m.ReplyVal
	return &reply, nil
}

func (m *MockChatClient) Endpoint() string {
	if m.EndpointVal == "" {
		return models.DefaultBaseURL + models.EndpointChat
	}
	return m.EndpointVal
}

func (m *MockChatClient) Timeout() time.Duration {
	return m.TimeoutVal
}

// Calls returns the number of Send calls
func (m *MockChatClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// LastMessage returns the message of the most recent Send call
func (m *MockChatClient) LastMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return ""
	}
	return m.messages[len(m.messages)-1]
}
