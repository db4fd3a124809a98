package core

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/inovacc/doubleblind/internal/api"
	"github.com/inovacc/doubleblind/internal/metrics"
	"github.com/inovacc/doubleblind/internal/model"
	"github.com/inovacc/doubleblind/internal/notify"
)

// User-facing mutation messages. They never carry error detail.
const (
	MessageProjectCreated      = "Successfully Created Project"
	MessageRepositoryDeployed  = "Successfully Deployed Repository"
	MessageCreateProjectFailed = "Failed to Create Project"
	MessageDeployFailed        = "Failed to Deploy Repository"
)

// GatewayOptions configures a MutationGateway.
type GatewayOptions struct {
	Logger  *slog.Logger
	Metrics *metrics.Collector
}

// MutationGateway submits a single write and reports its outcome to a sink.
//
// Each Submit is one attempt with no retry. Concurrent identical submissions
// are not deduplicated and produce independent remote calls.
type MutationGateway struct {
	mutator Mutator
	sink    NotificationSink
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewMutationGateway creates a gateway writing through mutator.
func NewMutationGateway(mutator Mutator, sink NotificationSink, opts GatewayOptions) *MutationGateway {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &MutationGateway{
		mutator: mutator,
		sink:    sink,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// Submit validates req, performs it and notifies the sink.
//
// A validation failure is returned as *model.ValidationError before any
// network call and without a notification. A remote or transport failure
// sends one fixed failure message to the sink, is logged with its detail and
// is returned as *MutationError.
func (g *MutationGateway) Submit(ctx context.Context, req model.MutationRequest) error {
	req, err := requestValue(req)
	if err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		return err
	}

	requestID := uuid.NewString()
	ctx = api.ContextWithRequestID(ctx, requestID)

	kind := req.Kind()
	start := time.Now()

	subject, err := g.perform(ctx, req)
	g.metrics.ObserveDuration(string(kind), time.Since(start).Seconds())
	g.metrics.Mutation(string(kind), err == nil)

	if err != nil {
		g.logger.Error("mutation failed",
			slog.String("kind", string(kind)),
			slog.String("subject", subject),
			slog.String("request_id", requestID),
			slog.Any("error", err))

		g.sink.Dispatch(ctx, notify.NewEvent(notify.EventMutationFailed).
			WithKind(string(kind)).
			WithSubject(subject).
			WithMessage(failureMessage(kind)).
			WithExtra("request_id", requestID).
			Failed())

		return &MutationError{Kind: kind, Err: err}
	}

	g.logger.Info("mutation succeeded",
		slog.String("kind", string(kind)),
		slog.String("subject", subject),
		slog.String("request_id", requestID))

	g.sink.Dispatch(ctx, notify.NewEvent(successEvent(kind)).
		WithKind(string(kind)).
		WithSubject(subject).
		WithMessage(successMessage(kind)).
		WithExtra("request_id", requestID))

	return nil
}

func (g *MutationGateway) perform(ctx context.Context, req model.MutationRequest) (string, error) {
	switch r := req.(type) {
	case model.CreateProject:
		return r.Name, g.mutator.CreateProject(ctx, r.Name, r.RepoIdentifier)
	case model.DeployRepository:
		return deploySubject(r), g.mutator.Deploy(ctx, r.Domain, r.Branch, r.RepositoryID)
	default:
		return "", fmt.Errorf("unsupported mutation %T", req)
	}
}

// requestValue dereferences the pointer variants of req. A nil request,
// typed or not, is rejected.
func requestValue(req model.MutationRequest) (model.MutationRequest, error) {
	switch r := req.(type) {
	case nil:
		return nil, ErrNilMutation
	case *model.CreateProject:
		if r == nil {
			return nil, ErrNilMutation
		}

		return *r, nil
	case *model.DeployRepository:
		if r == nil {
			return nil, ErrNilMutation
		}

		return *r, nil
	}

	return req, nil
}

func deploySubject(d model.DeployRepository) string {
	return d.Domain + "@" + d.Branch + " (#" + strconv.FormatInt(d.RepositoryID, 10) + ")"
}

func successEvent(kind model.MutationKind) string {
	if kind == model.MutationDeployRepository {
		return notify.EventRepositoryDeployed
	}

	return notify.EventProjectCreated
}

func successMessage(kind model.MutationKind) string {
	if kind == model.MutationDeployRepository {
		return MessageRepositoryDeployed
	}

	return MessageProjectCreated
}

func failureMessage(kind model.MutationKind) string {
	if kind == model.MutationDeployRepository {
		return MessageDeployFailed
	}

	return MessageCreateProjectFailed
}
