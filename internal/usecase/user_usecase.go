package usecase

import (
	"context"
	"errors"

	"job-portal/internal/domain/job"
	"job-portal/internal/domain/matching"
	"job-portal/internal/domain/user"
	ucuser "job-portal/internal/usecase/user"

	"github.com/google/uuid"
)

const recommendedJobsLimit = 10

type UserUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error)
	RecommendedJobs(ctx context.Context, actor user.Actor) ([]matching.Scored[job.Job], error)
	SavedJobs(ctx context.Context, actor user.Actor) ([]job.Job, error)
	ToggleSavedJob(ctx context.Context, actor user.Actor, jobID uuid.UUID) (bool, error)
}

type User struct {
	svc   *ucuser.Service
	users user.Repository
	jobs  job.Repository
}

func NewUserUsecase(users user.Repository, jobs job.Repository) *User {
	return &User{svc: ucuser.NewService(users), users: users, jobs: jobs}
}

func (u *User) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return u.svc.GetProfile(ctx, userID)
}

func (u *User) UpdateProfile(ctx context.Context, userID uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error) {
	return u.svc.UpdateProfile(ctx, userID, in)
}

// RecommendedJobs scores up to ten open jobs against the candidate's skills,
// best match first.
func (u *User) RecommendedJobs(ctx context.Context, actor user.Actor) ([]matching.Scored[job.Job], error) {
	if !actor.Role.CanApply() {
		return nil, ErrForbidden
	}
	usr, err := u.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternal
	}

	open := job.StatusOpen
	jobs, err := u.jobs.List(ctx, job.ListFilter{Status: &open, Limit: recommendedJobsLimit})
	if err != nil {
		return nil, ErrInternal
	}
	return matching.Rank(usr.Profile.Skills, jobs, func(j job.Job) []string { return j.Skills }), nil
}

func (u *User) SavedJobs(ctx context.Context, actor user.Actor) ([]job.Job, error) {
	if !actor.Role.HasWishlist() {
		return nil, ErrForbidden
	}
	jobs, err := u.jobs.ListSavedBy(ctx, actor.ID)
	if err != nil {
		return nil, ErrInternal
	}
	return jobs, nil
}

// ToggleSavedJob reports whether the job is saved after the call.
func (u *User) ToggleSavedJob(ctx context.Context, actor user.Actor, jobID uuid.UUID) (bool, error) {
	if !actor.Role.HasWishlist() {
		return false, ErrForbidden
	}
	if _, err := u.jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return false, ErrJobNotFound
		}
		return false, ErrInternal
	}
	saved, err := u.users.ToggleSavedJob(ctx, actor.ID, jobID)
	if err != nil {
		return false, ErrInternal
	}
	return saved, nil
}
