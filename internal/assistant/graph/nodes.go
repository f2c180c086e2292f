package graph

import (
	"context"

	"github.com/chatty-orange/server/internal/assistant/classify"
	"github.com/chatty-orange/server/internal/assistant/dispatch"
	"github.com/chatty-orange/server/internal/assistant/model"
)

const (
	NodeClassify = "classify"
	NodeLookup   = "lookup"
	NodeGenerate = "generate"
	NodeFinish   = "finish"
)

// Routed carries the request together with its classification.
type Routed struct {
	Request        model.AssistantRequest
	Classification model.Classification
}

// Answer is a collaborator result before apology and truncation.
type Answer struct {
	Intent model.Intent
	Text   string
	Err    error
}

func newClassifyNode(c *classify.Classifier) func(ctx context.Context, req model.AssistantRequest) (*Routed, error) {
	return func(ctx context.Context, req model.AssistantRequest) (*Routed, error) {
		explicit, _ := model.ParseIntent(req.ExplicitIntent)
		cls := classify.WithRequestFields(c.Classify(req.RawText, explicit), req)
		return &Routed{Request: req, Classification: cls}, nil
	}
}

func newRouteCondition() func(ctx context.Context, r *Routed) (string, error) {
	return func(ctx context.Context, r *Routed) (string, error) {
		if r.Classification.Intent.IsLookup() {
			return NodeLookup, nil
		}
		return NodeGenerate, nil
	}
}

// Collaborator errors travel inside Answer so the graph itself never fails
// on them.
func newLookupNode(d *dispatch.Dispatcher) func(ctx context.Context, r *Routed) (*Answer, error) {
	return func(ctx context.Context, r *Routed) (*Answer, error) {
		text, err := d.Lookup(ctx, r.Classification, r.Request)
		return &Answer{Intent: r.Classification.Intent, Text: text, Err: err}, nil
	}
}

func newGenerateNode(d *dispatch.Dispatcher) func(ctx context.Context, r *Routed) (*Answer, error) {
	return func(ctx context.Context, r *Routed) (*Answer, error) {
		text, err := d.Generate(ctx, r.Classification.Intent, r.Request)
		return &Answer{Intent: r.Classification.Intent, Text: text, Err: err}, nil
	}
}

func newFinishNode(d *dispatch.Dispatcher) func(ctx context.Context, a *Answer) (string, error) {
	return func(ctx context.Context, a *Answer) (string, error) {
		return d.Finish(ctx, a.Intent, a.Text, a.Err), nil
	}
}
