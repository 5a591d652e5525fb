// internal/pipeline/orchestrator.go
package pipeline

import (
	"context"
	"fmt"

	"github.com/aquaflow/copilot/internal/rules"
	"github.com/aquaflow/copilot/internal/types"
	"github.com/sirupsen/logrus"
)

/*
 * Top-level per-request state machine.
 *
 * Sequences: classify -> enrich -> branch on confidence/process -> gate on
 * ruleset -> dispatch to specialist -> assemble response.
 *
 * Terminal states:
 *   SOCIAL          small talk, fixed informational payload
 *   UNKNOWN         unclassified or confidence below threshold
 *   NEED_INFO       required field absent, question for the human agent
 *   RECOMMENDATION  rules evaluated, specialist guidance attached
 *
 * Collaborator failures degrade rather than abort: a failed classifier call
 * becomes an UNKNOWN classification, a failed specialist call becomes the
 * fixed fallback recommendation. Structural failures (no ruleset for the
 * process, no registered specialist) surface as distinct errors.
 *
 * The orchestrator holds no per-conversation state; every request is
 * independent and the whole pipeline is safe for concurrent use.
 */

// Classifier is the external process-classification collaborator.
type Classifier interface {
	Classify(ctx context.Context, messages []string) (types.Classification, error)
}

// Specialist is the external recommendation-generation collaborator for one
// business process.
type Specialist interface {
	Recommend(ctx context.Context, messages []string, enriched types.CustomerContext, decision types.Decision) (types.Recommendation, error)
}

// RuleSource resolves the ruleset for a process name.
type RuleSource interface {
	Load(process string) (*types.RuleSet, error)
}

// Result is the assembled outcome of one analysis request.
type Result struct {
	TraceID         types.TraceID
	Status          string
	Process         string
	Confidence      float64
	RulesDecision   types.Decision
	Recommendation  *types.Recommendation
	EnrichedContext types.CustomerContext
}

// Orchestrator wires the classifier, rule source, and specialist registry
// into the analysis pipeline. Construct once per process; all dependencies
// are explicit handles, no hidden globals.
type Orchestrator struct {
	classifier  Classifier
	ruleSource  RuleSource
	specialists map[string]Specialist
	log         *logrus.Logger
}

// NewOrchestrator creates the pipeline with its collaborators. The
// specialists map is keyed by process name; a nil map is treated as empty.
func NewOrchestrator(classifier Classifier, ruleSource RuleSource, specialists map[string]Specialist, log *logrus.Logger) (*Orchestrator, error) {
	if classifier == nil {
		return nil, fmt.Errorf("classifier cannot be nil")
	}
	if ruleSource == nil {
		return nil, fmt.Errorf("ruleSource cannot be nil")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if specialists == nil {
		specialists = map[string]Specialist{}
	}
	return &Orchestrator{
		classifier:  classifier,
		ruleSource:  ruleSource,
		specialists: specialists,
		log:         log,
	}, nil
}

// Analyze runs one conversation plus static context through the pipeline.
// Both inputs must be non-empty; empty input is rejected before any
// collaborator is called.
func (o *Orchestrator) Analyze(ctx context.Context, messages []string, static types.CustomerContext) (Result, error) {
	if len(messages) == 0 {
		return Result{}, types.ErrEmptyMessages
	}
	if len(static) == 0 {
		return Result{}, types.ErrEmptyContext
	}

	traceID := types.NewTraceID()

	classification, err := o.classifier.Classify(ctx, messages)
	if err != nil {
		// Contractually the classifier degrades internally, but a broken
		// implementation must not abort the request either.
		o.log.WithFields(logrus.Fields{
			"trace_id": traceID,
			"stage":    "classify",
		}).WithError(err).Warn("classifier failed, degrading to UNKNOWN")
		classification = types.UnknownClassification()
	}

	enriched := Enrich(static, classification.ExtractedData)

	result := Result{
		TraceID:         traceID,
		Process:         classification.Process,
		Confidence:      classification.Confidence,
		EnrichedContext: enriched,
	}

	if classification.Process == types.StateSocial {
		result.Status = types.StateSocial
		result.RulesDecision = types.SocialDecision()
		return result, nil
	}

	if classification.Process == types.StateUnknown || classification.Confidence < types.ConfidenceThreshold {
		result.Status = types.StateUnknown
		result.Process = types.StateUnknown
		result.RulesDecision = types.UnknownDecision()
		return result, nil
	}

	ruleset, err := o.ruleSource.Load(classification.Process)
	if err != nil {
		return Result{}, err
	}

	decision := rules.NewEngine(ruleset).Evaluate(enriched)
	result.RulesDecision = decision

	if decision.Status == types.StateNeedInfo {
		result.Status = types.StateNeedInfo
		o.log.WithFields(logrus.Fields{
			"trace_id":      traceID,
			"process":       classification.Process,
			"missing_field": decision.MissingField,
		}).Info("analysis needs more information")
		return result, nil
	}

	specialist, ok := o.specialists[classification.Process]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", types.ErrUnimplementedSpecialist, classification.Process)
	}

	recommendation, err := specialist.Recommend(ctx, messages, enriched, decision)
	if err != nil {
		o.log.WithFields(logrus.Fields{
			"trace_id": traceID,
			"stage":    "recommend",
			"process":  classification.Process,
		}).WithError(err).Warn("specialist failed, substituting fallback recommendation")
		recommendation = types.FallbackRecommendation(decision)
	}

	result.Status = types.StateRecommendation
	result.Recommendation = &recommendation
	o.log.WithFields(logrus.Fields{
		"trace_id":   traceID,
		"process":    classification.Process,
		"confidence": classification.Confidence,
		"decision":   decision.Decision,
	}).Info("analysis completed")
	return result, nil
}
