package api

import (
	"github.com/nivaranhq/nivaran/internal/config"
	"github.com/nivaranhq/nivaran/internal/grievances"
	"github.com/nivaranhq/nivaran/internal/intake"
	"github.com/nivaranhq/nivaran/internal/prompts"
	"github.com/nivaranhq/nivaran/internal/sentiment"
	"github.com/nivaranhq/nivaran/internal/triage"
	"github.com/nivaranhq/nivaran/internal/verification"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Grievances grievances.System
	Sentiment  sentiment.System
	Intake     intake.System
	Prompts    prompts.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	classifier := triage.New(
		runtime.Oracle,
		promptsSystem,
		runtime.Logger,
	)

	gate := verification.New(
		runtime.Oracle,
		promptsSystem,
		&cfg.Verification,
		runtime.Logger,
	)

	grievancesSystem := grievances.New(
		runtime.Database.Connection(),
		runtime.Storage,
		classifier,
		gate,
		runtime.Logger,
		runtime.Pagination,
	)

	sentimentSystem := sentiment.New(
		runtime.Database.Connection(),
		runtime.Oracle,
		promptsSystem,
		&cfg.Sentiment,
		runtime.Logger,
	)

	intakeSystem := intake.New(
		grievancesSystem,
		&cfg.Intake,
		runtime.Logger,
	)

	return &Domain{
		Grievances: grievancesSystem,
		Sentiment:  sentimentSystem,
		Intake:     intakeSystem,
		Prompts:    promptsSystem,
	}
}
