// Package graph wires classification and dispatch into an eino graph:
// classify, then lookup or generate, then finish.
package graph

import (
	"context"
	"fmt"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/compose"

	"github.com/chatty-orange/server/internal/assistant/classify"
	"github.com/chatty-orange/server/internal/assistant/dispatch"
	"github.com/chatty-orange/server/internal/assistant/model"
	logx "github.com/chatty-orange/server/pkg/logger"
)

// Runner executes the compiled graph for one request.
type Runner interface {
	Invoke(ctx context.Context, req model.AssistantRequest) (model.AssistantResponse, error)
}

type Config struct {
	Classifier *classify.Classifier
	Dispatcher *dispatch.Dispatcher
	Callbacks  []einocb.Handler
	// Now stamps responses; defaults to time.Now.
	Now func() time.Time
}

// GraphBuilder handles the construction of the assistant graph.
type GraphBuilder struct {
	config *Config
	graph  *compose.Graph[model.AssistantRequest, string]
}

type graphRunner struct {
	runnable  compose.Runnable[model.AssistantRequest, string]
	callbacks []einocb.Handler
	now       func() time.Time
}

func (r *graphRunner) Invoke(ctx context.Context, req model.AssistantRequest) (model.AssistantResponse, error) {
	var opts []compose.Option
	if len(r.callbacks) > 0 {
		opts = append(opts, compose.WithCallbacks(r.callbacks...))
	}
	out, err := r.runnable.Invoke(ctx, req, opts...)
	if err != nil {
		return model.AssistantResponse{}, err
	}
	return model.AssistantResponse{
		Text:      out,
		Timestamp: r.now().UTC().Format(time.RFC3339),
	}, nil
}

// Build validates cfg, compiles the graph and returns a Runner.
func Build(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("classifier is nil")
	}
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is nil")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	b := &GraphBuilder{
		config: &cfg,
		graph:  compose.NewGraph[model.AssistantRequest, string](),
	}
	if err := b.addNodes(); err != nil {
		return nil, err
	}
	if err := b.addEdges(); err != nil {
		return nil, err
	}
	if err := b.addBranches(); err != nil {
		return nil, err
	}
	runnable, err := b.compile(ctx)
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Assistant graph built successfully")
	return &graphRunner{runnable: runnable, callbacks: cfg.Callbacks, now: cfg.Now}, nil
}

func (b *GraphBuilder) addNodes() error {
	d := b.config.Dispatcher
	nodes := []struct {
		key    string
		lambda *compose.Lambda
	}{
		{NodeClassify, compose.InvokableLambda(newClassifyNode(b.config.Classifier))},
		{NodeLookup, compose.InvokableLambda(newLookupNode(d))},
		{NodeGenerate, compose.InvokableLambda(newGenerateNode(d))},
		{NodeFinish, compose.InvokableLambda(newFinishNode(d))},
	}
	for _, n := range nodes {
		if err := b.graph.AddLambdaNode(n.key, n.lambda, compose.WithNodeName(n.key)); err != nil {
			return fmt.Errorf("error adding node %s: %w", n.key, err)
		}
	}
	return nil
}

func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, NodeClassify},
		{NodeLookup, NodeFinish},
		{NodeGenerate, NodeFinish},
		{NodeFinish, compose.END},
	}
	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

func (b *GraphBuilder) addBranches() error {
	route := compose.NewGraphBranch(
		newRouteCondition(),
		map[string]bool{
			NodeLookup:   true,
			NodeGenerate: true,
		},
	)
	if err := b.graph.AddBranch(NodeClassify, route); err != nil {
		logx.Error().Err(err).Msg("Error adding route branch")
		return fmt.Errorf("error adding route branch: %w", err)
	}
	return nil
}

func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.AssistantRequest, string], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(10), compose.WithGraphName("assistant"))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}
	return runnable, nil
}
