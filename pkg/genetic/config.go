package genetic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/limaJavier/genetic-timetabling/pkg/model"
	"github.com/samber/lo"
)

const (
	DefaultPopulationSize = 50
	DefaultGenerations    = 500
	DefaultMutationRate   = 0.05
	DefaultElitismCount   = 2
)

type Config struct {
	PopulationSize int     `validate:"gte=1"`
	Generations    int     `validate:"gte=1"`
	MutationRate   float64 `validate:"gte=0,lte=1"`
	ElitismCount   int     `validate:"gte=0,ltefield=PopulationSize"`
	Workers        int     `validate:"gte=0"` // Evaluation goroutines; 0 and 1 evaluate sequentially
}

func DefaultConfig() Config {
	return Config{
		PopulationSize: DefaultPopulationSize,
		Generations:    DefaultGenerations,
		MutationRate:   DefaultMutationRate,
		ElitismCount:   DefaultElitismCount,
		Workers:        1,
	}
}

var validate = validator.New()

func (config Config) Validate() error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return model.ConfigurationError{Reason: err.Error()}
	}

	reasons := lo.Map(validationErrors, func(fieldErr validator.FieldError, _ int) string {
		if fieldErr.Param() == "" {
			return fmt.Sprintf("%v must satisfy %v (got %v)", fieldErr.Field(), fieldErr.Tag(), fieldErr.Value())
		}
		return fmt.Sprintf("%v must satisfy %v=%v (got %v)", fieldErr.Field(), fieldErr.Tag(), fieldErr.Param(), fieldErr.Value())
	})
	return model.ConfigurationError{Reason: strings.Join(reasons, "; ")}
}
