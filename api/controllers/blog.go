package controllers

import (
	"net/http"
	"strings"

	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	"github.com/fitcoachhq/fitcoach-backend/api/validators"
	"github.com/fitcoachhq/fitcoach-backend/internal/blog"
	pkgerrors "github.com/fitcoachhq/fitcoach-backend/pkg/errors"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/fitcoachhq/fitcoach-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

const (
	defaultBlogLatestLimit = 3
	maxBlogLatestLimit     = 20
)

// BlogList returns published posts, newest first, with cursor pagination.
func BlogList(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.List(ctx, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// BlogLatest returns the most recently published posts for the landing page.
func BlogLatest(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", defaultBlogLatestLimit, 1, maxBlogLatestLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		posts, err := svc.Latest(ctx, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"posts": posts})
	}
}

// BlogGet resolves one published post by slug and buffers a view.
func BlogGet(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug required"))
			return
		}

		post, err := svc.GetBySlug(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, post)
	}
}

// BlogListAll returns every post including drafts.
func BlogListAll(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		posts, err := svc.ListAll(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"posts": posts})
	}
}

func BlogCreate(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		authorID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var params blog.PostParams
		if err := validators.DecodeJSONBody(r, &params); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		post, err := svc.Create(ctx, authorID, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, post)
	}
}

func BlogUpdate(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "postId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var params blog.PostParams
		if err := validators.DecodeJSONBody(r, &params); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		post, err := svc.Update(ctx, id, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, post)
	}
}

func BlogDelete(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "postId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
