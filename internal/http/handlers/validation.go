package handlers

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/mindwell-api/internal/domain"
	"github.com/tbourn/mindwell-api/internal/services"
)

var registerOnce sync.Once

// registerValidations adds the mood_score and message_type rules to Gin's
// validator and makes field errors report JSON names.
func registerValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Warn().Msg("binding engine is not validator/v10; custom rules disabled")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation("mood_score", validMoodScore); err != nil {
			log.Warn().Err(err).Msg("register mood_score")
		}
		if err := v.RegisterValidation("message_type", validMessageType); err != nil {
			log.Warn().Err(err).Msg("register message_type")
		}
	})
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// validMoodScore accepts whole numbers in [1,10]; 3.5 is rejected.
func validMoodScore(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		x := f.Float()
		return x == math.Trunc(x) && domain.ValidMoodScore(int(x))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return domain.ValidMoodScore(int(f.Int()))
	}
	return false
}

func validMessageType(fl validator.FieldLevel) bool {
	mt := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	for _, t := range domain.MessageTypes {
		if t == mt {
			return true
		}
	}
	return false
}

// bindMessage turns a ShouldBindJSON error into a client-facing message.
func bindMessage(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return "invalid JSON body"
	}
	fe := ves[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "mood_score":
		return services.ErrInvalidMoodScore.Error()
	case "message_type":
		return "messageType must be one of: " + strings.Join(domain.MessageTypes, ", ")
	case "max":
		return fe.Field() + " too long"
	}
	return fe.Field() + " is invalid"
}
