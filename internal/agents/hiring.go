package agents

import (
	"context"
	"strings"

	"github.com/jonathan/smarthire/internal/schemas"
	"github.com/jonathan/smarthire/internal/types"
)

// WriteJobDescription drafts an ATS-friendly description for a requisition.
func (a *Agents) WriteJobDescription(ctx context.Context, title string, skills, responsibilities []string, salary, seniority string) (*types.JobDescriptionResult, error) {
	var out types.JobDescriptionResult
	err := a.generate(ctx, call{
		agent:  AgentJobDescription,
		prompt: "write-job-description",
		schema: schemas.JobDescription,
		data: map[string]string{
			"Title":            title,
			"Seniority":        seniority,
			"SalaryRange":      salary,
			"Skills":           joinList(skills),
			"Responsibilities": joinList(responsibilities),
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	out.Description = strings.TrimSpace(out.Description)
	return &out, nil
}

// GenerateSourcingStrategy plans where and how to find candidates for a role.
func (a *Agents) GenerateSourcingStrategy(ctx context.Context, title string, skills []string, location string) (*types.SourcingResult, error) {
	var out types.SourcingResult
	err := a.generate(ctx, call{
		agent:  AgentSourcing,
		prompt: "sourcing-strategy",
		schema: schemas.Sourcing,
		data: map[string]string{
			"Title":    title,
			"Skills":   joinList(skills),
			"Location": location,
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	out.Platforms = nonNil(out.Platforms)
	out.OutreachTemplates = nonNil(out.OutreachTemplates)
	if out.BooleanSearchStrings == nil {
		out.BooleanSearchStrings = map[string]string{}
	}
	return &out, nil
}

// EstimateSalary estimates a market compensation range.
func (a *Agents) EstimateSalary(ctx context.Context, jobTitle, location, seniority string, skills []string) (*types.SalaryEstimationResult, error) {
	var out types.SalaryEstimationResult
	err := a.generate(ctx, call{
		agent:  AgentSalary,
		prompt: "estimate-salary",
		schema: schemas.SalaryEstimation,
		data: map[string]string{
			"Title":     jobTitle,
			"Location":  location,
			"Seniority": seniority,
			"Skills":    joinList(skills),
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	out.MarketFactors = nonNil(out.MarketFactors)
	return &out, nil
}
