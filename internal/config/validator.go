package config

import (
	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"github.com/go-playground/validator/v10"
)

func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("chat_type", validateChatType)
	return v
}

func validateChatType(fl validator.FieldLevel) bool {
	return entity.MessageType(fl.Field().String()).Valid()
}
