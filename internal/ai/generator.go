package ai

import (
	"fmt"
	"log/slog"
	"regexp"

	"deskpilot/internal/plan"
	"deskpilot/internal/store"
)

var digitRun = regexp.MustCompile(`\d+`)

// Generator produces raw task plans from natural-language instructions and
// repairs the common mistakes models make before handing the plan on.
type Generator struct {
	client    *Client
	validator *plan.Validator
	actions   []store.Action
	log       *slog.Logger
}

// NewGenerator returns a Generator speaking through client and validating
// against the store's vocabulary.
func NewGenerator(client *Client, s *store.Store, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		client:    client,
		validator: plan.NewValidator(s),
		actions:   s.ValidActions(),
		log:       log,
	}
}

// Generate asks the model for a plan, fixes what it can, and returns the plan
// JSON together with its validation report. The caller decides whether an
// invalid plan is still worth showing.
func (g *Generator) Generate(instruction string) (string, plan.Report, error) {
	jsonStr, err := g.client.GeneratePlan(PlanSystemPrompt(g.actions), instruction)
	if err != nil {
		return "", plan.Report{}, err
	}

	raw, err := plan.Decode([]byte(jsonStr))
	if err != nil {
		return "", plan.Report{}, fmt.Errorf("model produced an unusable plan: %w", err)
	}

	report := g.validator.Report(raw)
	if !report.IsValid {
		g.log.Warn("generated plan has errors, attempting fixes", "errors", report.ErrorCount)
		raw = g.fixPlan(raw)
		report = g.validator.Report(raw)
		fixed, err := plan.Encode(raw)
		if err != nil {
			return "", report, err
		}
		jsonStr = fixed
	}

	return jsonStr, report, nil
}

// fixPlan applies the mechanical repairs: unknown actions become click, wait
// values are reduced to their digits, and missing targets become "screen".
func (g *Generator) fixPlan(raw plan.RawPlan) plan.RawPlan {
	for i := range raw.Steps {
		step := &raw.Steps[i]

		if !store.IsValidAction(step.Action) {
			g.log.Warn("fixing unknown action", "action", step.Action)
			step.Action = string(store.ActionClick)
		}

		if step.Action == string(store.ActionWait) {
			value := ""
			if step.Value != nil {
				value = fmt.Sprintf("%v", step.Value)
			}
			if digits := digitRun.FindString(value); digits != "" {
				step.Value = digits
			} else {
				step.Value = "4"
			}
		}

		if step.Target == "" {
			step.Target = "screen"
		}
	}
	return raw
}
