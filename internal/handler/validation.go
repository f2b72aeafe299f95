package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/sportivai/federation-api/internal/model"
)

// RegisterValidations installs domain validations on gin's binding engine.
// Call once at startup, before the router handles traffic.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("demande_status", func(fl validator.FieldLevel) bool {
		switch model.DemandeStatus(fl.Field().String()) {
		case model.DemandeStatusDraft, model.DemandeStatusSubmitted, model.DemandeStatusUnderReview,
			model.DemandeStatusValidated, model.DemandeStatusRejected:
			return true
		}
		return false
	})

	_ = v.RegisterValidation("devis_status", func(fl validator.FieldLevel) bool {
		return model.ValidDevisStatus(model.DevisStatus(fl.Field().String()))
	})
}
