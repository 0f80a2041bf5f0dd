package service

import (
	"context"
	"errors"
	"sync"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/yasinhessnawi1/inkwell-users/internal/models"
	"github.com/yasinhessnawi1/inkwell-users/internal/utils"
)

var errDatabaseDown = errors.New("database is down")

// MockUserRepository is an in-memory repository.UserRepository
type MockUserRepository struct {
	users        map[int64]*models.User
	usersByEmail map[string]*models.User
	nextID       int64
	// Err, when set, is returned by every method
	Err error
}

func NewMockUserRepository(users ...*models.User) *MockUserRepository {
	m := &MockUserRepository{
		users:        make(map[int64]*models.User),
		usersByEmail: make(map[string]*models.User),
		nextID:       1,
	}
	for _, u := range users {
		m.users[u.ID] = u
		m.usersByEmail[u.Email] = u
		if u.ID >= m.nextID {
			m.nextID = u.ID + 1
		}
	}
	return m
}

func (m *MockUserRepository) Create(_ context.Context, user *models.User) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.usersByEmail[user.Email]; ok {
		return utils.NewDuplicateError("User", "email", user.Email)
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	m.usersByEmail[user.Email] = user
	return nil
}

func (m *MockUserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	return user, nil
}

func (m *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, utils.NewNotFoundError("User", email)
	}
	return user, nil
}

func (m *MockUserRepository) Update(_ context.Context, user *models.User) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.users[user.ID]; !ok {
		return utils.NewNotFoundError("User", user.ID)
	}
	m.users[user.ID] = user
	m.usersByEmail[user.Email] = user
	return nil
}

func (m *MockUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.usersByEmail[email]
	return ok, nil
}

// MockResetTokenRepository is a mock implementation of repository.ResetTokenRepository
type MockResetTokenRepository struct {
	IssueFunc        func(ctx context.Context, userID int64) (string, error)
	ConsumeFunc      func(ctx context.Context, token string) (int64, bool, error)
	PurgeExpiredFunc func(ctx context.Context) (int, error)
}

func (m *MockResetTokenRepository) Issue(ctx context.Context, userID int64) (string, error) {
	return m.IssueFunc(ctx, userID)
}

func (m *MockResetTokenRepository) Consume(ctx context.Context, token string) (int64, bool, error) {
	return m.ConsumeFunc(ctx, token)
}

func (m *MockResetTokenRepository) PurgeExpired(ctx context.Context) (int, error) {
	return m.PurgeExpiredFunc(ctx)
}

// sentReset records one SendPasswordReset call
type sentReset struct {
	Email string
	Link  string
}

// MockNotifier records reset links instead of sending them
type MockNotifier struct {
	Err  error
	Sent []sentReset
	mu   sync.Mutex
}

func (m *MockNotifier) SendPasswordReset(_ context.Context, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, sentReset{Email: email, Link: link})
	return nil
}

// MockMailSender is a mock implementation of MailSender
type MockMailSender struct {
	Response *rest.Response
	Err      error
	Message  *mail.SGMailV3
}

func (m *MockMailSender) Send(email *mail.SGMailV3) (*rest.Response, error) {
	m.Message = email
	return m.Response, m.Err
}
