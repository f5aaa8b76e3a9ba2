package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

const (
	usersPath         = ports.UsersPath
	defaultSearchSize = 10
)

type userService struct {
	repo ports.UserRepository
	auth ports.AuthService
	rv   ports.Revalidator
	log  zerolog.Logger
}

// NewUserService returns a UserService implementation.
func NewUserService(repo ports.UserRepository, auth ports.AuthService, rv ports.Revalidator, log zerolog.Logger) ports.UserService {
	return &userService{repo: repo, auth: auth, rv: rv, log: log}
}

// Search backs the user picker: a short list of tenant users matching the
// search text, optionally restricted to a role.
func (s *userService) Search(ctx context.Context, actor *domain.Actor, q *schema.UserSearchQuery) ([]*domain.User, error) {
	if q == nil {
		q = &schema.UserSearchQuery{}
	}
	if err := authorize(actor, q, domain.PermUsersRead); err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit == 0 {
		limit = defaultSearchSize
	}
	f := ports.UserFilter{
		ListFilter: ports.ListFilter{TenantID: actor.TenantID, Search: q.Search, Sort: "name", Page: 1, Limit: limit},
		Role:       q.Role,
	}
	users, _, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

func (s *userService) List(ctx context.Context, actor *domain.Actor, q *schema.ListQuery) (*ports.Page[*domain.User], error) {
	if q == nil {
		q = &schema.ListQuery{}
	}
	if err := authorize(actor, q, domain.PermUsersWrite); err != nil {
		return nil, err
	}
	f := ports.UserFilter{ListFilter: listFilter(actor, q)}
	f.OwnerID = ""
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ports.NewPage(items, total, f.Page, f.Limit), nil
}

// Create adds an account to the admin's tenant.
func (s *userService) Create(ctx context.Context, actor *domain.Actor, form *schema.UserForm) (_ *domain.User, err error) {
	defer func() { observe("users", "create", err) }()

	if err := authorize(actor, form, domain.PermUsersWrite); err != nil {
		return nil, err
	}
	user, err := s.auth.Register(ctx, actor.TenantID, form)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Str("actor", actor.UserID).Msg("user created")
	revalidate(ctx, s.rv, s.log, actor.TenantID, usersPath)
	return user, nil
}

// AssignRole changes the role of another user of the tenant.
func (s *userService) AssignRole(ctx context.Context, actor *domain.Actor, id string, form *schema.RoleForm) (_ *domain.User, err error) {
	defer func() { observe("users", "assign_role", err) }()

	if err := authorize(actor, form, domain.PermRolesAssign); err != nil {
		return nil, err
	}
	if id == actor.UserID {
		return nil, domain.ErrSelfModification
	}
	user, err := s.repo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if user.Role == form.Role {
		return user, nil
	}
	if err := s.repo.UpdateRole(ctx, actor.TenantID, id, form.Role); err != nil {
		return nil, fmt.Errorf("assign role: %w", err)
	}

	s.log.Info().Str("user_id", id).Str("from", user.Role).Str("to", form.Role).Str("actor", actor.UserID).Msg("role assigned")
	user.Role = form.Role
	revalidate(ctx, s.rv, s.log, actor.TenantID, usersPath, usersPath+"/"+id)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor *domain.Actor, id string) (err error) {
	defer func() { observe("users", "delete", err) }()

	if err := authorize(actor, nil, domain.PermUsersWrite); err != nil {
		return err
	}
	if id == actor.UserID {
		return domain.ErrSelfModification
	}
	if err := s.repo.Delete(ctx, actor.TenantID, id); err != nil {
		return err
	}

	s.log.Info().Str("user_id", id).Str("actor", actor.UserID).Msg("user deleted")
	revalidate(ctx, s.rv, s.log, actor.TenantID, usersPath, usersPath+"/"+id)
	return nil
}

// Current returns the account of the actor.
func (s *userService) Current(ctx context.Context, actor *domain.Actor) (*domain.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, actor.TenantID, actor.UserID)
}

// CurrentWithPermissions returns the account of the actor and what its
// current role grants. The role is read from the store, not the token, so a
// role change applies on the next request.
func (s *userService) CurrentWithPermissions(ctx context.Context, actor *domain.Actor) (*ports.CurrentUser, error) {
	user, err := s.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &ports.CurrentUser{User: user, Permissions: domain.PermissionsFor(user.Role)}, nil
}
