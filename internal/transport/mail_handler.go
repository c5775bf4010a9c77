package transport

import (
	"fmt"
	"net/http"

	"verduleria/internal/middleware"
	"verduleria/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MailQuery is the GET /api/send-mail query contract.
type MailQuery struct {
	To      string `validate:"required,min=3,max=75"`
	Subject string `validate:"required,min=2,max=150"`
	Content string `validate:"required,min=2,max=150"`
}

// ConsultRequest is a storefront consult form submission; the message is
// relayed to the shop's own mailbox.
type ConsultRequest struct {
	Fullname string `json:"fullname" validate:"required,min=3,max=70"`
	Email    string `json:"email" validate:"required,email"`
	Content  string `json:"content" validate:"required,min=2,max=500"`
}

// MailHandler handles HTTP requests that relay email
type MailHandler struct {
	mail      service.MailService
	shopEmail string
	logger    *zap.Logger
}

// NewMailHandler creates a new MailHandler. shopEmail is where consult
// form submissions land.
func NewMailHandler(mail service.MailService, shopEmail string, logger *zap.Logger) *MailHandler {
	return &MailHandler{
		mail:      mail,
		shopEmail: shopEmail,
		logger:    logger,
	}
}

// RegisterRoutes registers the mail routes, wrapped in the rate limiter
// when one is configured.
func (h *MailHandler) RegisterRoutes(r chi.Router, limiter func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter)
		}
		r.Get("/api/send-mail", h.SendMail)
		r.Post("/api/send-consult", h.SendConsult)
	})
}

// SendMail handles GET /api/send-mail?to=&subject=&content=.
func (h *MailHandler) SendMail(w http.ResponseWriter, r *http.Request) {
	query := MailQuery{
		To:      r.URL.Query().Get("to"),
		Subject: r.URL.Query().Get("subject"),
		Content: r.URL.Query().Get("content"),
	}

	if query.To == "" || query.Subject == "" || query.Content == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing required parameters")
		return
	}

	if err := middleware.ValidateRequest(query); err != nil {
		if msg := middleware.FirstValidationMessage(err); msg != "" {
			middleware.RespondWithError(w, http.StatusBadRequest, msg)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result := h.mail.Send(query.To, query.Subject, query.Content)
	middleware.RespondWithData(w, http.StatusOK, result)
}

// SendConsult handles POST /api/send-consult.
func (h *MailHandler) SendConsult(w http.ResponseWriter, r *http.Request) {
	var req ConsultRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Consult validation failed", zap.Error(err))

		if msg := middleware.FirstValidationMessage(err); msg != "" {
			middleware.RespondWithError(w, http.StatusBadRequest, msg)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	subject := fmt.Sprintf("Customer consult from %s", req.Fullname)
	body := fmt.Sprintf("<p><b>From:</b> %s (%s)</p><p>%s</p>", req.Fullname, req.Email, req.Content)

	result := h.mail.Send(h.shopEmail, subject, body)
	middleware.RespondWithData(w, http.StatusOK, result)
}
