package controllers

import (
	"net/http"

	"github.com/fitcoachhq/fitcoach-backend/api/responses"
	"github.com/fitcoachhq/fitcoach-backend/api/validators"
	"github.com/fitcoachhq/fitcoach-backend/internal/feedback"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

// FeedbackListPublic returns approved and visible testimonials only.
func FeedbackListPublic(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		items, err := svc.ListPublic(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"feedbacks": items})
	}
}

// FeedbackSubmit stores a testimonial; it stays hidden until moderated.
func FeedbackSubmit(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params feedback.SubmitParams
		if err := validators.DecodeJSONBody(r, &params); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		params.AuthorName = validators.SanitizeString(params.AuthorName, 120)
		params.Content = validators.SanitizeString(params.Content, 4000)

		item, err := svc.Submit(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// FeedbackListAll returns every testimonial regardless of moderation state.
func FeedbackListAll(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		items, err := svc.ListAll(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"feedbacks": items})
	}
}

// FeedbackModerate toggles the approval and visibility flags.
func FeedbackModerate(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "feedbackId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var params feedback.ModerateParams
		if err := validators.DecodeJSONBody(r, &params); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.Moderate(ctx, id, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func FeedbackDelete(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "feedbackId")
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
