package assistant

import (
	"context"

	"go.uber.org/zap"

	"github.com/bububa/qa-agents/agents"
	"github.com/bububa/qa-agents/components"
	"github.com/bububa/qa-agents/schema"
)

const (
	WorkflowName = "Test Workflow"
	// RatingRequest is appended to the main transcript to ask the judge for a verdict
	RatingRequest = "请给出你对上述回答的评价"
)

// Result of a successful query
type Result struct {
	Main   *agents.RunResult
	Rating *agents.RunResult
	Score  Rating
}

// Pipeline answers a question with the main assistant then has the judge rate the transcript
type Pipeline struct {
	runner *agents.Runner
	roster *Roster
}

func NewPipeline(runner *agents.Runner, roster *Roster) *Pipeline {
	return &Pipeline{
		runner: runner,
		roster: roster,
	}
}

// Process runs one query for user. Errors are *QueryError.
// The judge only runs after the main assistant succeeded.
func (p *Pipeline) Process(ctx context.Context, input string, user schema.UserInfo) (*Result, error) {
	ctx = schema.WithUser(ctx, user)
	var ret *Result
	err := p.runner.Trace(ctx, WorkflowName, func(ctx context.Context) error {
		mainRes, err := p.runner.Run(ctx, p.roster.Main, input)
		if err != nil {
			return err
		}
		transcript := append(mainRes.ToInputList(), *components.NewMessage(components.UserRole, RatingRequest))
		rateRes, err := p.runner.RunMessages(ctx, p.roster.Rate, transcript)
		if err != nil {
			return err
		}
		ret = &Result{
			Main:   mainRes,
			Rating: rateRes,
			Score:  ParseRating(rateRes.FinalOutputText()),
		}
		return nil
	})
	if err != nil {
		qErr := newQueryError(err)
		p.runner.Logger().Info("query failed", zap.String("kind", string(qErr.Kind)), zap.String("user_id", user.UserID), zap.Error(err))
		return nil, qErr
	}
	return ret, nil
}
