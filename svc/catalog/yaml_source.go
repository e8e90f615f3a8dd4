package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// yamlSource loads the catalog from an ops-managed YAML file.
//
// File shape:
//
//	plans:
//	  - id: 3e8f5a1c-...
//	    name: Basic
//	    tier: basic
//	    monthly_price: 0
//	    annual_price: 0
//	    currency: USD
//	    limits:
//	      replies: 10
//	      disputes: 2
//	    features: [private_reviews]
//	    active: true
type yamlSource struct {
	path string
}

// NewYAMLSource returns a Source reading plans from the YAML file at path.
func NewYAMLSource(path string) Source {
	return &yamlSource{path: path}
}

type yamlPlanFile struct {
	Plans []yamlPlan `yaml:"plans"`
}

type yamlPlan struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Tier         string           `yaml:"tier"`
	MonthlyPrice int64            `yaml:"monthly_price"`
	AnnualPrice  int64            `yaml:"annual_price"`
	Currency     string           `yaml:"currency"`
	Limits       map[string]int64 `yaml:"limits"`
	Features     []string         `yaml:"features"`
	Active       bool             `yaml:"active"`
}

func (s *yamlSource) Load(ctx context.Context) ([]Plan, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	var file yamlPlanFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	plans := make([]Plan, 0, len(file.Plans))
	for i, yp := range file.Plans {
		p, err := yp.toPlan()
		if err != nil {
			return nil, errors.Join(ErrFailedToLoadPlans,
				fmt.Errorf("plan at index %d: %w", i, err))
		}
		plans = append(plans, p)
	}

	return plans, nil
}

func (yp yamlPlan) toPlan() (Plan, error) {
	id, err := uuid.Parse(yp.ID)
	if err != nil {
		return Plan{}, fmt.Errorf("invalid plan id %q: %w", yp.ID, err)
	}

	tier, err := ParseTier(yp.Tier)
	if err != nil {
		return Plan{}, err
	}

	limits := make(map[Quota]int64, len(yp.Limits))
	for name, v := range yp.Limits {
		q, err := ParseQuota(name)
		if err != nil {
			return Plan{}, err
		}
		limits[q] = v
	}

	features := make([]Feature, 0, len(yp.Features))
	for _, name := range yp.Features {
		f, err := ParseFeature(name)
		if err != nil {
			return Plan{}, err
		}
		features = append(features, f)
	}

	return Plan{
		ID:           id,
		Name:         yp.Name,
		Tier:         tier,
		MonthlyPrice: yp.MonthlyPrice,
		AnnualPrice:  yp.AnnualPrice,
		Currency:     yp.Currency,
		Limits:       limits,
		Features:     features,
		Active:       yp.Active,
	}, nil
}
