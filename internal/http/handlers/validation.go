package handlers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	types "github.com/yungbote/lingualeap-backend/internal/domain"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request structs in this package.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("lesson_status", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || types.IsValidLessonStatus(s)
		})
	})
}

// bindingMessage turns validator output into one readable line.
func bindingMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid request body: " + err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "lesson_status":
		return fe.Field() + " must be one of draft, published, archived"
	case "min", "max":
		return fe.Field() + " is out of range (" + fe.Tag() + "=" + fe.Param() + ")"
	default:
		return fe.Field() + " is invalid (" + fe.Tag() + ")"
	}
}
