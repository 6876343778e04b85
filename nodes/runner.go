package nodes

import (
	"context"
	"fmt"

	"lucy_nodes/artifact"
	"lucy_nodes/core"
	"lucy_nodes/logging"
	"lucy_nodes/lucygen"
	"lucy_nodes/staticfiles"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner executes generation nodes against the shared pipeline.
//
// One Runner serves all four operation kinds; everything
// operation-specific comes from the lucygen operation table. Node
// executions are independent units of work with no shared mutable state,
// so a single Runner is safe for concurrent executions.
type Runner struct {
	client  *lucygen.Client
	encoder *lucygen.MediaEncoder
	store   staticfiles.Store
	secrets core.SecretResolver
	logger  *logging.Logger
}

// NewRunner creates a Runner. All collaborators are required except the
// logger, which defaults to a no-op logger.
func NewRunner(client *lucygen.Client, encoder *lucygen.MediaEncoder, store staticfiles.Store, secrets core.SecretResolver, logger *logging.Logger) (*Runner, error) {
	if client == nil {
		return nil, fmt.Errorf("nodes: client cannot be nil")
	}
	if encoder == nil {
		return nil, fmt.Errorf("nodes: encoder cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("nodes: store cannot be nil")
	}
	if secrets == nil {
		return nil, fmt.Errorf("nodes: secret resolver cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Runner{
		client:  client,
		encoder: encoder,
		store:   store,
		secrets: secrets,
		logger:  logger.Named("runner"),
	}, nil
}

// Execute runs one node: it resolves the credential, reads inputs from
// source, drives the encode→build→submit→decode pipeline, and publishes
// the output artifact to sink.
//
// Exactly one outcome per invocation: either the complete artifact is
// returned and published, or an error is returned and nothing is
// published. All failures are terminal; nothing is retried here.
//
// Failure ordering, for hosts surfacing messages: the credential is
// checked first, then required media presence, then the prompt, all
// before any encoding or HTTP work.
func (r *Runner) Execute(ctx context.Context, op lucygen.Operation, source core.ParameterSource, sink core.ParameterSink) (artifact.Artifact, error) {
	spec, ok := lucygen.SpecFor(op)
	if !ok {
		return nil, fmt.Errorf("nodes: unknown operation %q", op)
	}

	correlationID := uuid.New().String()
	log := r.logger.With(
		zap.String("correlation_id", correlationID),
		zap.String("operation", string(spec.Op)),
		zap.String("model", spec.ModelName),
	)
	log.Info("starting node execution")

	apiKey, err := r.resolveAPIKey(spec)
	if err != nil {
		log.Error("credential resolution failed", zap.Error(err))
		return nil, err
	}

	mediaValue, err := r.requiredMediaValue(spec, source, log)
	if err != nil {
		return nil, err
	}

	fields, err := lucygen.BuildFields(spec, readParams(spec, source))
	if err != nil {
		log.Error("request assembly failed", zap.Error(err))
		return nil, err
	}

	filePart, err := r.encodeMedia(ctx, spec, mediaValue, log)
	if err != nil {
		return nil, err
	}

	result, err := r.client.Submit(ctx, spec.ModelName, apiKey, fields, filePart)
	if err != nil {
		log.Error("provider submission failed", zap.Error(err))
		return nil, err
	}

	out, err := lucygen.DecodeResult(result, spec, r.store)
	if err != nil {
		log.Error("output decoding failed", zap.Error(err))
		return nil, err
	}

	sink.SetOutput(OutputParam(spec), out)
	log.Info("node execution complete", zap.String("output_url", out.ArtifactURL()))
	return out, nil
}

// resolveAPIKey fetches the provider credential, failing with
// MISSING_CREDENTIAL before any other work when it is absent.
func (r *Runner) resolveAPIKey(spec lucygen.OperationSpec) (string, error) {
	apiKey, ok := r.secrets.GetSecret(core.APIKeyEnvVar)
	if !ok {
		return "", &lucygen.Error{
			Code:    lucygen.CodeMissingCredential,
			Op:      string(spec.Op),
			Message: fmt.Sprintf("missing %s, ensure it is set in the environment or config", core.APIKeyEnvVar),
		}
	}
	return apiKey, nil
}

// requiredMediaValue checks that the operation's input media is present.
// Text-only operations return nil. A required-but-absent input fails with
// MISSING_MEDIA before the prompt is even looked at.
func (r *Runner) requiredMediaValue(spec lucygen.OperationSpec, source core.ParameterSource, log *logging.Logger) (any, error) {
	inputParam := MediaInputParam(spec)
	if inputParam == "" {
		return nil, nil
	}

	value, ok := source.GetInput(inputParam)
	if !ok || value == nil {
		err := &lucygen.Error{
			Code:    lucygen.CodeMissingMedia,
			Op:      string(spec.Op),
			Message: fmt.Sprintf("no input %s provided", spec.RequiredMedia),
		}
		log.Error("missing required media", zap.Error(err))
		return nil, err
	}
	return value, nil
}

// encodeMedia normalizes the host value into a media reference and
// encodes it as the multipart file part. A nil value means a text-only
// operation with no file part.
func (r *Runner) encodeMedia(ctx context.Context, spec lucygen.OperationSpec, value any, log *logging.Logger) (*lucygen.FilePart, error) {
	if value == nil {
		return nil, nil
	}

	ref, err := artifact.FromHostValue(value)
	if err != nil {
		wrapped := &lucygen.Error{
			Code:    lucygen.CodeUnsupportedMedia,
			Op:      string(spec.Op),
			Message: fmt.Sprintf("unsupported %s input", spec.RequiredMedia),
			Err:     err,
		}
		log.Error("unsupported media input", zap.Error(wrapped))
		return nil, wrapped
	}

	filePart, err := r.encoder.Encode(ctx, ref, lucygen.EncodeDefaults{
		Stem:        spec.InputStem,
		Extension:   spec.InputExtension,
		ContentType: spec.InputContentType,
	})
	if err != nil {
		log.Error("media encoding failed", zap.Error(err))
		return nil, err
	}
	return filePart, nil
}

// readParams collects the non-file fields from the parameter source.
func readParams(spec lucygen.OperationSpec, source core.ParameterSource) lucygen.Params {
	params := lucygen.Params{
		Prompt:      stringInput(source, ParamPrompt),
		Resolution:  stringInput(source, ParamResolution),
		Orientation: stringInput(source, ParamOrientation),
	}
	if spec.AllowSeed {
		params.Seed = intInput(source, ParamSeed)
	}
	return params
}

// stringInput reads a string parameter, tolerating unset values.
func stringInput(source core.ParameterSource, name string) string {
	value, ok := source.GetInput(name)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

// intInput reads an integer parameter. Hosts deliver numbers as int,
// int64, or float64 depending on their serialization; all are accepted.
func intInput(source core.ParameterSource, name string) *int64 {
	value, ok := source.GetInput(name)
	if !ok || value == nil {
		return nil
	}

	var seed int64
	switch v := value.(type) {
	case int:
		seed = int64(v)
	case int64:
		seed = v
	case float64:
		seed = int64(v)
	default:
		return nil
	}
	return &seed
}
