package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/answer-trust/internal/model"
	"github.com/sells-group/answer-trust/internal/site"
	"github.com/sells-group/answer-trust/pkg/anthropic"
)

const askSystemPrompt = "Answer in one or two plain sentences, the way you would summarize the organization for a search user. No lists, no caveats."

// AskOptions configures an Ask call.
type AskOptions struct {
	Model     string
	MaxTokens int
}

// Question returns the entity question asked for afb.
func Question(afb model.AFB) string {
	name := site.Host(strings.TrimPrefix(afb.EntityID, "ent:"))
	if name == "" || name == "unknown" {
		name = strings.TrimPrefix(afb.AFBID, "afb:page:")
	}
	return fmt.Sprintf("What is %s and what does it do?", name)
}

// Ask puts the entity question for afb to a model and stores the answer as
// a capture. A store is required.
func (p *Pipeline) Ask(ctx context.Context, client anthropic.Client, afb model.AFB, opts AskOptions) (*model.Capture, error) {
	if p.store == nil {
		return nil, eris.New("pipeline: ask requires a store")
	}
	if client == nil {
		return nil, eris.New("pipeline: ask requires an anthropic client")
	}
	if afb.AFBID == "" {
		return nil, eris.New("pipeline: afb_id is required")
	}

	resp, err := client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     opts.Model,
		MaxTokens: int64(opts.MaxTokens),
		System:    askSystemPrompt,
		Messages:  []anthropic.Message{{Role: "user", Content: Question(afb)}},
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: ask model")
	}
	resp.Usage.LogCost(opts.Model, "capture")

	text := resp.Text()
	if text == "" {
		return nil, eris.Errorf("pipeline: empty answer from %s", opts.Model)
	}

	c, err := p.store.AddCapture(ctx, model.Capture{
		AFBID:    afb.AFBID,
		AIOutput: text,
		Source:   "anthropic:" + opts.Model,
		Meta:     model.NewMeta("anthropic:" + opts.Model),
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: store capture")
	}
	zap.L().Info("pipeline: captured model answer",
		zap.String("afb_id", c.AFBID),
		zap.String("capture_id", c.CaptureID),
		zap.String("model", opts.Model),
	)
	return c, nil
}
