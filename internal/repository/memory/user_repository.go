package memory

import (
	"strings"

	"github.com/patrickmn/go-cache"

	"llama-chat-be/internal/entity"
)

// UserRepository keeps accounts in process memory, keyed by lowercased
// email. Users never expire; only the process ending forgets them.
type UserRepository struct {
	cache *cache.Cache
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *UserRepository) Save(user *entity.User) {
	r.cache.Set(strings.ToLower(user.Email), user, cache.NoExpiration)
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, bool) {
	if x, found := r.cache.Get(strings.ToLower(email)); found {
		return x.(*entity.User), true
	}
	return nil, false
}
