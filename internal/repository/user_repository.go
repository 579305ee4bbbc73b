package repository

import (
	"context"

	"github.com/d60-Lab/feedmock/internal/model"
	"github.com/d60-Lab/feedmock/internal/store"
)

type UserRepository interface {
	Get(ctx context.Context, userID string) (*model.User, error)
	// GetMany 按传入顺序返回用户，任一不存在即失败
	GetMany(ctx context.Context, userIDs []string) ([]*model.User, error)
	Save(ctx context.Context, user *model.User) error
}

type userRepository struct {
	users *store.Collection[model.User, *model.User]
}

func NewUserRepository(backend store.Backend) UserRepository {
	return &userRepository{users: store.NewCollection[model.User](backend, model.CollectionUsers)}
}

func (r *userRepository) Get(ctx context.Context, userID string) (*model.User, error) {
	return r.users.Read(ctx, userID)
}

func (r *userRepository) GetMany(ctx context.Context, userIDs []string) ([]*model.User, error) {
	res := make([]*model.User, 0, len(userIDs))
	for _, id := range userIDs {
		u, err := r.users.Read(ctx, id)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, nil
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	return r.users.Write(ctx, user)
}
