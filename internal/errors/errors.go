// Package errors maps xtractor failures onto gofulmen error envelopes and
// foundry exit codes.
package errors

import (
	"context"
	stderrors "errors"
	"io/fs"

	"github.com/fulmenhq/gofulmen/errors"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/xtractor/xtractor/internal/archive"
	"github.com/xtractor/xtractor/internal/media"
	"github.com/xtractor/xtractor/internal/metadata"
)

// Error codes carried by envelopes.
const (
	CodeInvalidContainer = "INVALID_CONTAINER"
	CodeMetadataInvalid  = "METADATA_INVALID"
	CodeMetadataMissing  = "METADATA_MISSING"
	CodeExtractionFailed = "EXTRACTION_FAILED"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeStoreFailed      = "STORE_FAILED"
	CodeInternal         = "INTERNAL_ERROR"
)

type runIDKey struct{}

// WithRunID stores the run id used as correlation id for envelopes built
// from ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id stored in ctx, if any.
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

func NewInvalidInputError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeInvalidInput, message)
}

func NewConfigInvalidError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeConfigInvalid, message)
}

func WrapInvalidInput(ctx context.Context, err error, message string) *errors.ErrorEnvelope {
	return medium(wrap(ctx, CodeInvalidInput, err, message))
}

func WrapConfigInvalid(ctx context.Context, err error, message string) *errors.ErrorEnvelope {
	return high(wrap(ctx, CodeConfigInvalid, err, message))
}

func WrapStoreFailed(ctx context.Context, err error, message string) *errors.ErrorEnvelope {
	return medium(wrap(ctx, CodeStoreFailed, err, message))
}

// FromDocumentError classifies a per-document failure.
func FromDocumentError(ctx context.Context, path string, err error) *errors.ErrorEnvelope {
	var (
		openErr  *archive.OpenError
		parseErr *metadata.ParseError
		env      *errors.ErrorEnvelope
	)
	switch {
	case stderrors.As(err, &openErr):
		env = medium(wrap(ctx, CodeInvalidContainer, err, "document is not a readable office package"))
	case stderrors.Is(err, metadata.ErrPartMissing):
		env = medium(wrap(ctx, CodeMetadataMissing, err, "document lacks a property part"))
	case stderrors.As(err, &parseErr):
		env = medium(wrap(ctx, CodeMetadataInvalid, err, "property part is not well-formed"))
	case stderrors.Is(err, media.ErrNotDirectory),
		stderrors.Is(err, media.ErrUnsafePath),
		stderrors.Is(err, media.ErrEntryTooLarge),
		stderrors.Is(err, fs.ErrPermission):
		env = high(wrap(ctx, CodeExtractionFailed, err, "media extraction failed"))
	default:
		env = high(wrap(ctx, CodeInternal, err, "document processing failed"))
	}
	return withContext(env, map[string]interface{}{"path": path})
}

// EnsureEnvelope normalizes any error into a gofulmen ErrorEnvelope.
func EnsureEnvelope(err error) *errors.ErrorEnvelope {
	if err == nil {
		env := errors.NewErrorEnvelope(CodeInternal, "unexpected nil error")
		env, _ = env.WithSeverity(errors.SeverityCritical)
		return env
	}

	var envelope *errors.ErrorEnvelope
	if stderrors.As(err, &envelope) && envelope != nil {
		return envelope
	}

	return high(wrap(nil, CodeInternal, err, "unexpected error"))
}

// ExitCode resolves the process exit code for an envelope.
func ExitCode(envelope *errors.ErrorEnvelope) foundry.ExitCode {
	if envelope == nil {
		return foundry.ExitFailure
	}
	switch envelope.Code {
	case CodeConfigInvalid:
		return foundry.ExitConfigInvalid
	case CodeInvalidInput:
		if missing, ok := envelope.Context["not_found"].(bool); ok && missing {
			return foundry.ExitFileNotFound
		}
		return foundry.ExitFailure
	default:
		return foundry.ExitFailure
	}
}

// WrapInputError builds the envelope for an unusable command-line path.
func WrapInputError(ctx context.Context, path string, err error) *errors.ErrorEnvelope {
	env := WrapInvalidInput(ctx, err, "input path cannot be processed")
	return withContext(env, map[string]interface{}{
		"path":      path,
		"not_found": stderrors.Is(err, fs.ErrNotExist),
	})
}

// Log writes envelope to logger at a level derived from its severity.
func Log(logger *logging.Logger, envelope *errors.ErrorEnvelope) {
	if logger == nil || envelope == nil {
		return
	}

	fields := []zap.Field{zap.String("error_code", envelope.Code)}
	if envelope.Severity != "" {
		fields = append(fields, zap.String("severity", string(envelope.Severity)))
	}
	for key, value := range envelope.Context {
		fields = append(fields, zap.Any(key, value))
	}
	if envelope.CorrelationID != "" {
		fields = append(fields, zap.String("run_id", envelope.CorrelationID))
	}

	switch envelope.Severity {
	case errors.SeverityCritical, errors.SeverityHigh:
		logger.Error(envelope.Message, fields...)
	case errors.SeverityMedium:
		logger.Warn(envelope.Message, fields...)
	default:
		logger.Info(envelope.Message, fields...)
	}
}

func wrap(ctx context.Context, code string, err error, message string) *errors.ErrorEnvelope {
	envelope := errors.NewErrorEnvelope(code, message)
	if id := RunID(ctx); id != "" {
		envelope = envelope.WithCorrelationID(id)
	} else {
		envelope = envelope.WithCorrelationID(errors.GenerateCorrelationID())
	}
	if err != nil {
		envelope = withContext(envelope, map[string]interface{}{"wrapped_error": err.Error()})
	}
	return envelope
}

func medium(envelope *errors.ErrorEnvelope) *errors.ErrorEnvelope {
	return keep(envelope)(envelope.WithSeverity(errors.SeverityMedium))
}

func high(envelope *errors.ErrorEnvelope) *errors.ErrorEnvelope {
	return keep(envelope)(envelope.WithSeverity(errors.SeverityHigh))
}

// keep falls back to the original envelope when an update is rejected.
func keep(original *errors.ErrorEnvelope) func(*errors.ErrorEnvelope, error) *errors.ErrorEnvelope {
	return func(updated *errors.ErrorEnvelope, err error) *errors.ErrorEnvelope {
		if err != nil || updated == nil {
			return original
		}
		return updated
	}
}

func withContext(envelope *errors.ErrorEnvelope, values map[string]interface{}) *errors.ErrorEnvelope {
	if envelope == nil {
		return nil
	}
	merged := make(map[string]interface{}, len(envelope.Context)+len(values))
	for k, v := range envelope.Context {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}
	updated, err := envelope.WithContext(merged)
	if err != nil {
		return envelope
	}
	return updated
}
