package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"exchange-campus/internal/models"
	"exchange-campus/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, name, email, passwordHash, university string, isVerified bool) (models.User, error) {
	args := m.Called(ctx, name, email, passwordHash, university, isVerified)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) ListByIDs(ctx context.Context, ids []int) ([]models.User, error) {
	args := m.Called(ctx, ids)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) Exists(ctx context.Context, userID int) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, senderID, receiverID int, content string) (models.Message, error) {
	args := m.Called(ctx, senderID, receiverID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListBetween(ctx context.Context, userA, userB, page, limit int) ([]models.Message, error) {
	args := m.Called(ctx, userA, userB, page, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) CountBetween(ctx context.Context, userA, userB int) (int, error) {
	args := m.Called(ctx, userA, userB)
	return args.Int(0), args.Error(1)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, receiverID, senderID int) (int64, error) {
	args := m.Called(ctx, receiverID, senderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepositoryMock) ListInvolving(ctx context.Context, userID int) ([]models.Message, error) {
	args := m.Called(ctx, userID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type ProductRepositoryMock struct {
	mock.Mock
}

func (m *ProductRepositoryMock) Create(ctx context.Context, p models.Product) (models.Product, error) {
	args := m.Called(ctx, p)
	var product models.Product
	if val := args.Get(0); val != nil {
		product = val.(models.Product)
	}
	return product, args.Error(1)
}

func (m *ProductRepositoryMock) Get(ctx context.Context, productID int) (models.Product, error) {
	args := m.Called(ctx, productID)
	var product models.Product
	if val := args.Get(0); val != nil {
		product = val.(models.Product)
	}
	return product, args.Error(1)
}

func (m *ProductRepositoryMock) List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int, error) {
	args := m.Called(ctx, filter)
	var products []models.Product
	if val := args.Get(0); val != nil {
		products = val.([]models.Product)
	}
	return products, args.Int(1), args.Error(2)
}

func (m *ProductRepositoryMock) ListByIDs(ctx context.Context, ids []int) ([]models.Product, error) {
	args := m.Called(ctx, ids)
	var products []models.Product
	if val := args.Get(0); val != nil {
		products = val.([]models.Product)
	}
	return products, args.Error(1)
}

func (m *ProductRepositoryMock) Update(ctx context.Context, productID int, upd repositories.ProductUpdate) (models.Product, error) {
	args := m.Called(ctx, productID, upd)
	var product models.Product
	if val := args.Get(0); val != nil {
		product = val.(models.Product)
	}
	return product, args.Error(1)
}

func (m *ProductRepositoryMock) Delete(ctx context.Context, productID int) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type ReviewRepositoryMock struct {
	mock.Mock
}

func (m *ReviewRepositoryMock) Create(ctx context.Context, reviewerID, recipientID int, productID *int, rating int, comment string) (models.Review, error) {
	args := m.Called(ctx, reviewerID, recipientID, productID, rating, comment)
	var review models.Review
	if val := args.Get(0); val != nil {
		review = val.(models.Review)
	}
	return review, args.Error(1)
}

func (m *ReviewRepositoryMock) ListForRecipient(ctx context.Context, recipientID, page, limit int) ([]models.Review, error) {
	args := m.Called(ctx, recipientID, page, limit)
	var reviews []models.Review
	if val := args.Get(0); val != nil {
		reviews = val.([]models.Review)
	}
	return reviews, args.Error(1)
}

func (m *ReviewRepositoryMock) CountForRecipient(ctx context.Context, recipientID int) (int, error) {
	args := m.Called(ctx, recipientID)
	return args.Int(0), args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.ProductRepository = (*ProductRepositoryMock)(nil)
var _ repositories.ReviewRepository = (*ReviewRepositoryMock)(nil)
